// Package domain contains persistence models for the sobremesa service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusProposed  = "proposed"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is a member of the lifecycle enum.
func ValidStatus(s string) bool {
	switch s {
	case StatusProposed, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

const (
	MinParticipants = 4
	MaxParticipants = 15
)

// Sobremesa represents a proposed themed meeting.
type Sobremesa struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Title           string       `gorm:"type:text;not null" json:"title"`
	Description     string       `gorm:"type:text;not null" json:"description"`
	Slug            string       `gorm:"type:text;not null" json:"slug"`
	DateTime        time.Time    `gorm:"column:date_time;not null" json:"date_time"`
	MaxParticipants int          `gorm:"column:max_participants;not null" json:"max_participants"`
	ConvocanteID    snowflake.ID `gorm:"column:convocante_id;not null;index" json:"convocante_id"`
	Status          string       `gorm:"type:text;not null;index" json:"status"`
	MeetingLink     string       `gorm:"column:meeting_link;type:text" json:"meeting_link,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Sobremesa) TableName() string { return "sobremesas" }

// ConvocanteProfile is the public organizer shape embedded in read responses.
// It never carries email or credential material.
type ConvocanteProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Context string `json:"context"`
	Bio     string `json:"bio,omitempty"`
	Photo   string `json:"photo,omitempty"`
}
