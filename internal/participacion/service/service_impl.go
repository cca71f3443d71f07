package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sobremesalab/sobremesa/internal/participacion/domain"
	"go.uber.org/zap"
)

type service struct {
	log  *zap.Logger
	repo domain.Repository
}

func NewService(log *zap.Logger, repo domain.Repository) domain.Service {
	return &service{
		log:  log.Named("participacion.service"),
		repo: repo,
	}
}

func (s *service) ListMine(ctx context.Context, userID snowflake.ID) ([]domain.MineResponseItem, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.MineResponseItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.MineResponseItem{
			ID:              item.SobremesaID.String(),
			Title:           item.Title,
			Description:     item.Description,
			Slug:            item.Slug,
			DateTime:        item.DateTime,
			MaxParticipants: item.MaxParticipants,
			Status:          item.Status,
			MeetingLink:     item.MeetingLink,
			MyRole:          item.MyRole,
			JoinedAt:        item.JoinedAt,
			Convocante: domain.Convocante{
				ID:      item.ConvocanteID.String(),
				Name:    item.ConvocanteName,
				Context: item.ConvocanteCtx,
				Photo:   item.ConvocantePhoto,
			},
		})
	}

	return resp, nil
}
