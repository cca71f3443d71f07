package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Submit(ctx context.Context, authorID snowflake.ID, req SubmitRequest) (*CartaResponse, error)
	CheckExisting(ctx context.Context, sobremesaID, userID snowflake.ID) (*CheckResponse, error)
	ListForSobremesa(ctx context.Context, sobremesaID, requesterID snowflake.ID) ([]CartaListItem, error)
}

type SubmitRequest struct {
	SobremesaID snowflake.ID
	Text        string
}

type CartaResponse struct {
	ID          string    `json:"id"`
	SobremesaID string    `json:"sobremesa_id"`
	Text        string    `json:"text"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CheckResponse answers "have I already written to this sobremesa".
type CheckResponse struct {
	HasCarta bool           `json:"has_carta"`
	Carta    *CartaResponse `json:"carta"`
}

// CartaListItem is the organizer's review shape; author email never appears.
type CartaListItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Author    Author    `json:"user"`
}

type Author struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Context string `json:"context"`
	Bio     string `json:"bio,omitempty"`
	Photo   string `json:"photo,omitempty"`
}
