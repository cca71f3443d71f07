package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	LoginWithGoogle(ctx context.Context, req GoogleLoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
	UpdateProfile(ctx context.Context, userID, requesterID snowflake.ID, req UpdateProfileRequest) (*User, error)
}

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Context  string
	Bio      string
	Photo    string
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type GoogleLoginRequest struct {
	IDToken   string
	UserAgent string
	IPAddress string
}

// UpdateProfileRequest carries optional profile fields. Name and Context are
// only overwritten when non-empty; Bio and Photo accept the empty string.
type UpdateProfileRequest struct {
	Name    *string
	Context *string
	Bio     *string
	Photo   *string
}

type LoginResult struct {
	User      *User
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}
