// Package domain contains the append-only participation ledger types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	RoleConvocante  = "convocante"
	RoleParticipant = "participant"
)

// Participacion is one ledger entry linking a user to a sobremesa. Entries are
// never updated or deleted; membership is derived from their presence.
type Participacion struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	SobremesaID snowflake.ID `gorm:"column:sobremesa_id;not null;index;uniqueIndex:ux_participaciones_sobremesa_user,priority:1" json:"sobremesa_id"`
	UserID      snowflake.ID `gorm:"column:user_id;not null;index;uniqueIndex:ux_participaciones_sobremesa_user,priority:2" json:"user_id"`
	Role        string       `gorm:"type:text;not null" json:"role"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Participacion) TableName() string { return "participaciones" }
