package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/sobremesalab/sobremesa/internal/auth/domain"
	"github.com/sobremesalab/sobremesa/internal/clock"
	"github.com/sobremesalab/sobremesa/internal/observability/metrics"
	participaciondomain "github.com/sobremesalab/sobremesa/internal/participacion/domain"
	"github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	"github.com/sobremesalab/sobremesa/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Log             *zap.Logger
	DB              *gorm.DB
	Repo            domain.Repository
	Participaciones participaciondomain.Repository
	Users           authdomain.Repository
	GenID           *snowflake.Node
	Clock           clock.Clock
	Metrics         *metrics.Metrics `optional:"true"`
}

type service struct {
	log             *zap.Logger
	db              *gorm.DB
	repo            domain.Repository
	participaciones participaciondomain.Repository
	users           authdomain.Repository
	genID           *snowflake.Node
	clock           clock.Clock
	metrics         *metrics.Metrics
}

func NewService(p Params) domain.Service {
	return &service{
		log:             p.Log.Named("sobremesa.service"),
		db:              p.DB,
		repo:            p.Repo,
		participaciones: p.Participaciones,
		users:           p.Users,
		genID:           p.GenID,
		clock:           p.Clock,
		metrics:         p.Metrics,
	}
}

func (s *service) Propose(ctx context.Context, convocanteID snowflake.ID, req domain.ProposeRequest) (*domain.SobremesaResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}

	now := s.clock.Now().UTC()
	if req.DateTime.IsZero() || !req.DateTime.After(now) {
		return nil, domain.ErrInvalidDateTime
	}
	if req.MaxParticipants < domain.MinParticipants || req.MaxParticipants > domain.MaxParticipants {
		return nil, domain.ErrInvalidCapacity
	}

	sobremesa := &domain.Sobremesa{
		ID:              s.genID.Generate(),
		Title:           title,
		Description:     description,
		Slug:            slug.Make(title),
		DateTime:        req.DateTime.UTC(),
		MaxParticipants: req.MaxParticipants,
		ConvocanteID:    convocanteID,
		Status:          domain.StatusProposed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// The sobremesa and its organizer's ledger entry land together or not
	// at all.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, sobremesa); err != nil {
			return err
		}

		entry := participaciondomain.Participacion{
			ID:          s.genID.Generate(),
			SobremesaID: sobremesa.ID,
			UserID:      convocanteID,
			Role:        participaciondomain.RoleConvocante,
			CreatedAt:   now,
		}
		return s.participaciones.WithTx(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSobremesaProposed(ctx)
	s.metrics.RecordParticipacion(ctx, participaciondomain.RoleConvocante)
	s.log.Info("sobremesa proposed",
		zap.String("sobremesa_id", sobremesa.ID.String()),
		zap.Int("max_participants", sobremesa.MaxParticipants),
	)

	return s.toResponse(ctx, sobremesa)
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.SobremesaResponse, error) {
	sobremesa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, sobremesa)
}

func (s *service) Cartelera(ctx context.Context, page pagination.Pagination) (*domain.CarteleraResponse, error) {
	limit := page.PageSize
	if limit <= 0 {
		limit = 20
	}

	var before *time.Time
	var beforeID snowflake.ID
	if strings.TrimSpace(page.PageToken) != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		if cursor.CreatedAt != "" {
			ts, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
			if err != nil {
				return nil, err
			}
			before = &ts
		}
		if cursor.ID != "" {
			id, err := snowflake.ParseString(cursor.ID)
			if err != nil {
				return nil, err
			}
			beforeID = id
		}
	}

	items, err := s.repo.ListProposed(ctx, before, beforeID, limit+1)
	if err != nil {
		return nil, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, limit, func(item *domain.CarteleraItem) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	resp := make([]*domain.SobremesaResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, &domain.SobremesaResponse{
			ID:              item.ID.String(),
			Title:           item.Title,
			Description:     item.Description,
			Slug:            item.Slug,
			DateTime:        item.DateTime,
			MaxParticipants: item.MaxParticipants,
			Status:          item.Status,
			CreatedAt:       item.CreatedAt,
			Convocante: &domain.ConvocanteProfile{
				ID:      item.ConvocanteID.String(),
				Name:    item.ConvocanteName,
				Context: item.ConvocanteCtx,
				Bio:     item.ConvocanteBio,
				Photo:   item.ConvocantePhoto,
			},
		})
	}

	return &domain.CarteleraResponse{Sobremesas: resp, PageInfo: pageInfo}, nil
}

func (s *service) SetStatus(ctx context.Context, id, requesterID snowflake.ID, status string) (*domain.SobremesaResponse, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	sobremesa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sobremesa.ConvocanteID != requesterID {
		return nil, domain.ErrForbidden
	}

	now := s.clock.Now().UTC()
	if err := s.repo.UpdateFields(ctx, id, map[string]any{
		"status":     status,
		"updated_at": now,
	}); err != nil {
		return nil, err
	}

	sobremesa.Status = status
	sobremesa.UpdatedAt = now
	return s.toResponse(ctx, sobremesa)
}

func (s *service) SetMeetingLink(ctx context.Context, id, requesterID snowflake.ID, link string) (*domain.SobremesaResponse, error) {
	meetingLink := strings.TrimSpace(link)
	if meetingLink == "" {
		return nil, domain.ErrInvalidMeetingLink
	}

	sobremesa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sobremesa.ConvocanteID != requesterID {
		return nil, domain.ErrForbidden
	}

	now := s.clock.Now().UTC()
	if err := s.repo.UpdateFields(ctx, id, map[string]any{
		"meeting_link": meetingLink,
		"updated_at":   now,
	}); err != nil {
		return nil, err
	}

	sobremesa.MeetingLink = meetingLink
	sobremesa.UpdatedAt = now
	return s.toResponse(ctx, sobremesa)
}

func (s *service) toResponse(ctx context.Context, sobremesa *domain.Sobremesa) (*domain.SobremesaResponse, error) {
	resp := &domain.SobremesaResponse{
		ID:              sobremesa.ID.String(),
		Title:           sobremesa.Title,
		Description:     sobremesa.Description,
		Slug:            sobremesa.Slug,
		DateTime:        sobremesa.DateTime,
		MaxParticipants: sobremesa.MaxParticipants,
		Status:          sobremesa.Status,
		MeetingLink:     sobremesa.MeetingLink,
		CreatedAt:       sobremesa.CreatedAt,
	}

	convocante, err := s.users.FindByID(ctx, sobremesa.ConvocanteID)
	if err != nil {
		return nil, err
	}
	resp.Convocante = &domain.ConvocanteProfile{
		ID:      convocante.ID.String(),
		Name:    convocante.Name,
		Context: convocante.Context,
		Bio:     convocante.Bio,
		Photo:   convocante.Photo,
	}

	return resp, nil
}
