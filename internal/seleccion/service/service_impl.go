package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	cartadomain "github.com/sobremesalab/sobremesa/internal/carta/domain"
	"github.com/sobremesalab/sobremesa/internal/clock"
	"github.com/sobremesalab/sobremesa/internal/observability/metrics"
	participaciondomain "github.com/sobremesalab/sobremesa/internal/participacion/domain"
	"github.com/sobremesalab/sobremesa/internal/seleccion/domain"
	sobremesadomain "github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Log             *zap.Logger
	DB              *gorm.DB
	Cartas          cartadomain.Repository
	Sobremesas      sobremesadomain.Repository
	Participaciones participaciondomain.Repository
	GenID           *snowflake.Node
	Clock           clock.Clock
	Metrics         *metrics.Metrics `optional:"true"`
}

type service struct {
	log             *zap.Logger
	db              *gorm.DB
	cartas          cartadomain.Repository
	sobremesas      sobremesadomain.Repository
	participaciones participaciondomain.Repository
	genID           *snowflake.Node
	clock           clock.Clock
	metrics         *metrics.Metrics
}

func NewService(p Params) domain.Service {
	return &service{
		log:             p.Log.Named("seleccion.service"),
		db:              p.DB,
		cartas:          p.Cartas,
		sobremesas:      p.Sobremesas,
		participaciones: p.Participaciones,
		genID:           p.GenID,
		clock:           p.Clock,
		metrics:         p.Metrics,
	}
}

func (s *service) Decide(ctx context.Context, cartaID, requesterID snowflake.ID, decision string) (*domain.DecisionResponse, error) {
	carta, err := s.cartas.FindByID(ctx, cartaID)
	if err != nil {
		return nil, err
	}

	sobremesa, err := s.sobremesas.FindByID(ctx, carta.SobremesaID)
	if err != nil {
		return nil, err
	}
	if sobremesa.ConvocanteID != requesterID {
		return nil, domain.ErrForbidden
	}

	if decision != domain.DecisionAccepted && decision != domain.DecisionRejected {
		return nil, domain.ErrInvalidDecision
	}

	// The conditional update and the ledger append commit together. Of two
	// concurrent decides exactly one flips the row; the loser sees
	// ErrAlreadyDecided and the ledger holds a single entry.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		decided, err := s.cartas.WithTx(tx).UpdateStatusIfPending(ctx, cartaID, decision)
		if err != nil {
			return err
		}
		if !decided {
			return domain.ErrAlreadyDecided
		}

		if decision != domain.DecisionAccepted {
			return nil
		}

		entry := participaciondomain.Participacion{
			ID:          s.genID.Generate(),
			SobremesaID: carta.SobremesaID,
			UserID:      carta.UserID,
			Role:        participaciondomain.RoleParticipant,
			CreatedAt:   s.clock.Now().UTC(),
		}
		return s.participaciones.WithTx(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCartaDecision(ctx, decision)
	if decision == domain.DecisionAccepted {
		s.metrics.RecordParticipacion(ctx, participaciondomain.RoleParticipant)
	}
	s.log.Info("carta decided",
		zap.String("carta_id", cartaID.String()),
		zap.String("decision", decision),
	)

	return &domain.DecisionResponse{
		CartaID:     cartaID.String(),
		SobremesaID: carta.SobremesaID.String(),
		Status:      decision,
	}, nil
}

func (s *service) Counts(ctx context.Context, sobremesaID snowflake.ID) (*domain.CountsResponse, error) {
	sobremesa, err := s.sobremesas.FindByID(ctx, sobremesaID)
	if err != nil {
		return nil, err
	}

	counts, err := s.cartas.CountByStatus(ctx, sobremesaID)
	if err != nil {
		return nil, err
	}

	return &domain.CountsResponse{
		Accepted:  counts.Accepted,
		Pending:   counts.Pending,
		SpotsLeft: int64(sobremesa.MaxParticipants) - counts.Accepted,
	}, nil
}
