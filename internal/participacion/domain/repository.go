package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// MineItem is one ledger entry joined with its sobremesa and organizer.
type MineItem struct {
	SobremesaID     snowflake.ID
	Title           string
	Description     string
	Slug            string
	DateTime        time.Time
	MaxParticipants int
	Status          string
	MeetingLink     string
	MyRole          string
	JoinedAt        time.Time
	ConvocanteID    snowflake.ID
	ConvocanteName  string
	ConvocanteCtx   string
	ConvocantePhoto string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, p Participacion) error
	ListByUser(ctx context.Context, userID snowflake.ID) ([]*MineItem, error)
	Exists(ctx context.Context, sobremesaID, userID snowflake.ID) (bool, error)
}
