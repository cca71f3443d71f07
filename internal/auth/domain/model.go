// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// User represents a registered account.
type User struct {
	ID           snowflake.ID      `gorm:"primaryKey"`
	Name         string            `gorm:"type:text;not null"`
	Email        string            `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash *string           `gorm:"type:text"`
	GoogleID     *string           `gorm:"column:google_id;type:text;uniqueIndex"`
	Context      string            `gorm:"column:context;type:text"`
	Bio          string            `gorm:"type:text"`
	Photo        string            `gorm:"type:text"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Session represents a persisted login session.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:text"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// UserView is the account owner's view, without credential material.
type UserView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Context string `json:"context"`
	Bio     string `json:"bio,omitempty"`
	Photo   string `json:"photo,omitempty"`
}

// ViewOf maps a user to its client representation.
func ViewOf(user *User) *UserView {
	if user == nil {
		return nil
	}
	return &UserView{
		ID:      user.ID.String(),
		Name:    user.Name,
		Email:   user.Email,
		Context: user.Context,
		Bio:     user.Bio,
		Photo:   user.Photo,
	}
}
