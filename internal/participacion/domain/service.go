package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	ListMine(ctx context.Context, userID snowflake.ID) ([]MineResponseItem, error)
}

// MineResponseItem is the client shape for "my sobremesas".
type MineResponseItem struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Slug            string     `json:"slug"`
	DateTime        time.Time  `json:"date_time"`
	MaxParticipants int        `json:"max_participants"`
	Status          string     `json:"status"`
	MeetingLink     string     `json:"meeting_link,omitempty"`
	MyRole          string     `json:"my_role"`
	JoinedAt        time.Time  `json:"joined_at"`
	Convocante      Convocante `json:"convocante"`
}

// Convocante is the public organizer shape for ledger listings.
type Convocante struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Context string `json:"context"`
	Photo   string `json:"photo,omitempty"`
}

var ErrInvalidUser = errors.New("invalid_user")
