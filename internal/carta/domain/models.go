// Package domain contains types for the carta de intención workflow.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

const (
	MinWords = 50
	MaxWords = 500
)

// CartaIntencion is one user's letter for one sobremesa. The unique index on
// (sobremesa_id, user_id) enforces the one-letter-per-pair invariant at the
// store, so concurrent submits cannot both land.
type CartaIntencion struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	SobremesaID snowflake.ID `gorm:"column:sobremesa_id;not null;index;uniqueIndex:ux_cartas_sobremesa_user,priority:1" json:"sobremesa_id"`
	UserID      snowflake.ID `gorm:"column:user_id;not null;index;uniqueIndex:ux_cartas_sobremesa_user,priority:2" json:"user_id"`
	Text        string       `gorm:"type:text;not null" json:"text"`
	Status      string       `gorm:"type:text;not null" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CartaIntencion) TableName() string { return "cartas_intencion" }
