package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sobremesalab/sobremesa/pkg/db/pagination"
)

type Service interface {
	Propose(ctx context.Context, convocanteID snowflake.ID, req ProposeRequest) (*SobremesaResponse, error)
	GetByID(ctx context.Context, id snowflake.ID) (*SobremesaResponse, error)
	Cartelera(ctx context.Context, page pagination.Pagination) (*CarteleraResponse, error)
	SetStatus(ctx context.Context, id, requesterID snowflake.ID, status string) (*SobremesaResponse, error)
	SetMeetingLink(ctx context.Context, id, requesterID snowflake.ID, link string) (*SobremesaResponse, error)
}

type ProposeRequest struct {
	Title           string
	Description     string
	DateTime        time.Time
	MaxParticipants int
}

type SobremesaResponse struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Slug            string             `json:"slug"`
	DateTime        time.Time          `json:"date_time"`
	MaxParticipants int                `json:"max_participants"`
	Status          string             `json:"status"`
	MeetingLink     string             `json:"meeting_link,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	Convocante      *ConvocanteProfile `json:"convocante,omitempty"`
}

type CarteleraResponse struct {
	Sobremesas []*SobremesaResponse `json:"sobremesas"`
	PageInfo   *pagination.PageInfo `json:"page_info"`
}
