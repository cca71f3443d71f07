package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// CarteleraItem is a proposed sobremesa joined with its organizer profile.
type CarteleraItem struct {
	ID              snowflake.ID
	Title           string
	Description     string
	Slug            string
	DateTime        time.Time
	MaxParticipants int
	Status          string
	CreatedAt       time.Time
	ConvocanteID    snowflake.ID
	ConvocanteName  string
	ConvocanteCtx   string
	ConvocanteBio   string
	ConvocantePhoto string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, s *Sobremesa) error
	FindByID(ctx context.Context, id snowflake.ID) (*Sobremesa, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	ListProposed(ctx context.Context, before *time.Time, beforeID snowflake.ID, limit int) ([]*CarteleraItem, error)
}
