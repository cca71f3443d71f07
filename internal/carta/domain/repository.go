package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListItem is a letter joined with its author's public profile.
type ListItem struct {
	ID          snowflake.ID
	SobremesaID snowflake.ID
	Text        string
	Status      string
	CreatedAt   time.Time
	AuthorID    snowflake.ID
	AuthorName  string
	AuthorCtx   string
	AuthorBio   string
	AuthorPhoto string
}

// StatusCounts aggregates letters per decision state for one sobremesa.
type StatusCounts struct {
	Accepted int64
	Pending  int64
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, carta *CartaIntencion) error
	FindByID(ctx context.Context, id snowflake.ID) (*CartaIntencion, error)
	FindBySobremesaAndUser(ctx context.Context, sobremesaID, userID snowflake.ID) (*CartaIntencion, error)
	ListBySobremesa(ctx context.Context, sobremesaID snowflake.ID) ([]*ListItem, error)
	UpdateStatusIfPending(ctx context.Context, id snowflake.ID, status string) (bool, error)
	CountByStatus(ctx context.Context, sobremesaID snowflake.ID) (*StatusCounts, error)
}
