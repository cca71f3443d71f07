// Package domain contains types for the organizer's selection workflow.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	cartadomain "github.com/sobremesalab/sobremesa/internal/carta/domain"
)

const (
	DecisionAccepted = cartadomain.StatusAccepted
	DecisionRejected = cartadomain.StatusRejected
)

type Service interface {
	Decide(ctx context.Context, cartaID, requesterID snowflake.ID, decision string) (*DecisionResponse, error)
	Counts(ctx context.Context, sobremesaID snowflake.ID) (*CountsResponse, error)
}

type DecisionResponse struct {
	CartaID     string `json:"carta_id"`
	SobremesaID string `json:"sobremesa_id"`
	Status      string `json:"status"`
}

// CountsResponse reports selection progress. SpotsLeft is capacity minus
// accepted letters and is deliberately not clamped at zero.
type CountsResponse struct {
	Accepted  int64 `json:"accepted"`
	Pending   int64 `json:"pending"`
	SpotsLeft int64 `json:"spots_left"`
}

var (
	ErrInvalidDecision = errors.New("invalid_decision")
	ErrAlreadyDecided  = errors.New("carta already decided")
	ErrForbidden       = errors.New("forbidden")
)
