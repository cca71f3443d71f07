package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sobremesalab/sobremesa/internal/carta/domain"
	"github.com/sobremesalab/sobremesa/internal/clock"
	"github.com/sobremesalab/sobremesa/internal/observability/metrics"
	sobremesadomain "github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	"github.com/sobremesalab/sobremesa/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Repo       domain.Repository
	Sobremesas sobremesadomain.Repository
	GenID      *snowflake.Node
	Clock      clock.Clock
	Metrics    *metrics.Metrics `optional:"true"`
}

type service struct {
	log        *zap.Logger
	repo       domain.Repository
	sobremesas sobremesadomain.Repository
	genID      *snowflake.Node
	clock      clock.Clock
	metrics    *metrics.Metrics
}

func NewService(p Params) domain.Service {
	return &service{
		log:        p.Log.Named("carta.service"),
		repo:       p.Repo,
		sobremesas: p.Sobremesas,
		genID:      p.GenID,
		clock:      p.Clock,
		metrics:    p.Metrics,
	}
}

func (s *service) Submit(ctx context.Context, authorID snowflake.ID, req domain.SubmitRequest) (*domain.CartaResponse, error) {
	text := strings.TrimSpace(req.Text)
	if words := len(strings.Fields(text)); words < domain.MinWords || words > domain.MaxWords {
		return nil, domain.ErrInvalidWordCount
	}

	sobremesa, err := s.sobremesas.FindByID(ctx, req.SobremesaID)
	if err != nil {
		return nil, err
	}
	if sobremesa.Status != sobremesadomain.StatusProposed {
		return nil, domain.ErrSubmissionClosed
	}
	if sobremesa.ConvocanteID == authorID {
		return nil, domain.ErrForbidden
	}

	if _, err := s.repo.FindBySobremesaAndUser(ctx, req.SobremesaID, authorID); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	carta := &domain.CartaIntencion{
		ID:          s.genID.Generate(),
		SobremesaID: req.SobremesaID,
		UserID:      authorID,
		Text:        text,
		Status:      domain.StatusPending,
		CreatedAt:   s.clock.Now().UTC(),
	}

	// The pre-check above is advisory; the unique index decides races.
	if err := s.repo.Create(ctx, carta); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, err
	}

	s.metrics.RecordCartaSubmitted(ctx)
	s.log.Info("carta submitted", zap.String("sobremesa_id", req.SobremesaID.String()))

	return toResponse(carta), nil
}

func (s *service) CheckExisting(ctx context.Context, sobremesaID, userID snowflake.ID) (*domain.CheckResponse, error) {
	carta, err := s.repo.FindBySobremesaAndUser(ctx, sobremesaID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.CheckResponse{HasCarta: false}, nil
	}
	if err != nil {
		return nil, err
	}

	return &domain.CheckResponse{HasCarta: true, Carta: toResponse(carta)}, nil
}

func (s *service) ListForSobremesa(ctx context.Context, sobremesaID, requesterID snowflake.ID) ([]domain.CartaListItem, error) {
	sobremesa, err := s.sobremesas.FindByID(ctx, sobremesaID)
	if err != nil {
		return nil, err
	}
	if sobremesa.ConvocanteID != requesterID {
		return nil, domain.ErrForbidden
	}

	items, err := s.repo.ListBySobremesa(ctx, sobremesaID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.CartaListItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.CartaListItem{
			ID:        item.ID.String(),
			Text:      item.Text,
			Status:    item.Status,
			CreatedAt: item.CreatedAt,
			Author: domain.Author{
				ID:      item.AuthorID.String(),
				Name:    item.AuthorName,
				Context: item.AuthorCtx,
				Bio:     item.AuthorBio,
				Photo:   item.AuthorPhoto,
			},
		})
	}

	return resp, nil
}

func toResponse(carta *domain.CartaIntencion) *domain.CartaResponse {
	return &domain.CartaResponse{
		ID:          carta.ID.String(),
		SobremesaID: carta.SobremesaID.String(),
		Text:        carta.Text,
		Status:      carta.Status,
		CreatedAt:   carta.CreatedAt,
	}
}
