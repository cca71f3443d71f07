package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sobremesalab/sobremesa/internal/auth/domain"
	"github.com/sobremesalab/sobremesa/internal/auth/google"
	"github.com/sobremesalab/sobremesa/internal/clock"
	"github.com/sobremesalab/sobremesa/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
	"gorm.io/datatypes"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16

	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour

	minPasswordLength = 8
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Repo        domain.Repository
	SessionRepo domain.SessionRepository
	GenID       *snowflake.Node
	Clock       clock.Clock
	Google      google.TokenVerifier
}

type Service struct {
	log         *zap.Logger
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	genID       *snowflake.Node
	clock       clock.Clock
	google      google.TokenVerifier
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("auth.service"),
		repo:        p.Repo,
		sessionRepo: p.SessionRepo,
		genID:       p.GenID,
		clock:       p.Clock,
		google:      p.Google,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	userContext := strings.TrimSpace(req.Context)
	if userContext == "" {
		return nil, domain.ErrInvalidContext
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        email,
		PasswordHash: &hashed,
		Context:      userContext,
		Bio:          strings.TrimSpace(req.Bio),
		Photo:        strings.TrimSpace(req.Photo),
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindOne(ctx, domain.User{Email: email})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil || !verifyPassword(req.Password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, user, req.UserAgent, req.IPAddress)
}

func (s *Service) LoginWithGoogle(ctx context.Context, req domain.GoogleLoginRequest) (*domain.LoginResult, error) {
	rawToken := strings.TrimSpace(req.IDToken)
	if rawToken == "" {
		return nil, domain.ErrInvalidGoogleToken
	}

	claims, err := s.google.Verify(ctx, rawToken)
	if err != nil {
		s.log.Debug("google token rejected", zap.Error(err))
		return nil, domain.ErrInvalidGoogleToken
	}
	if claims.Subject == "" || !claims.EmailVerified {
		return nil, domain.ErrInvalidGoogleToken
	}

	user, err := s.findOrCreateGoogleUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, user, req.UserAgent, req.IPAddress)
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}

	return s.sessionRepo.RevokeSession(ctx, session.ID, s.clock.Now().UTC())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	now := s.clock.Now().UTC()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessionRepo.UpdateLastSeen(ctx, session.ID, now); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *Service) GetUser(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, userID, requesterID snowflake.ID, req domain.UpdateProfileRequest) (*domain.User, error) {
	if userID != requesterID {
		return nil, domain.ErrForbidden
	}

	fields := map[string]any{}
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			fields["name"] = name
		}
	}
	if req.Context != nil {
		if userContext := strings.TrimSpace(*req.Context); userContext != "" {
			fields["context"] = userContext
		}
	}
	if req.Bio != nil {
		fields["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.Photo != nil {
		fields["photo"] = strings.TrimSpace(*req.Photo)
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.clock.Now().UTC()
		if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
	}

	return s.repo.FindByID(ctx, userID)
}

func (s *Service) openSession(ctx context.Context, user *domain.User, userAgent, ipAddress string) (*domain.LoginResult, error) {
	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(userAgent),
		IPAddress:        strings.TrimSpace(ipAddress),
		ExpiresAt:        now.Add(sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		User:      user,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
	}, nil
}

func (s *Service) findOrCreateGoogleUser(ctx context.Context, claims *google.Claims) (*domain.User, error) {
	user, err := s.repo.FindByGoogleID(ctx, claims.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	email, err := normalizeEmail(claims.Email)
	if err != nil {
		return nil, domain.ErrInvalidGoogleToken
	}

	// Returning users who registered with a password keep the same account.
	existing, err := s.repo.FindOne(ctx, domain.User{Email: email})
	if err == nil {
		fields := map[string]any{
			"google_id":  claims.Subject,
			"updated_at": s.clock.Now().UTC(),
		}
		if existing.Photo == "" && claims.Picture != "" {
			fields["photo"] = claims.Picture
		}
		if err := s.repo.UpdateFields(ctx, existing.ID, fields); err != nil {
			return nil, err
		}
		return s.repo.FindByID(ctx, existing.ID)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = defaultName(email)
	}

	now := s.clock.Now().UTC()
	googleID := claims.Subject
	user = &domain.User{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		GoogleID:  &googleID,
		Photo:     claims.Picture,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindByGoogleID(ctx, claims.Subject)
		}
		return nil, err
	}

	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func defaultName(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	saltB64 := base64.RawStdEncoding.EncodeToString(salt)
	hashB64 := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s", argonMemory, argonTime, argonThreads, saltB64, hashB64), nil
}

func verifyPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return false
	}

	var memory uint32
	var timeCost uint32
	var threads uint8
	{
		params := strings.Split(parts[3], ",")
		if len(params) != 3 {
			return false
		}

		m, ok := strings.CutPrefix(params[0], "m=")
		if !ok {
			return false
		}
		t, ok := strings.CutPrefix(params[1], "t=")
		if !ok {
			return false
		}
		p, ok := strings.CutPrefix(params[2], "p=")
		if !ok {
			return false
		}

		m64, err := strconv.ParseUint(m, 10, 32)
		if err != nil {
			return false
		}
		t64, err := strconv.ParseUint(t, 10, 32)
		if err != nil {
			return false
		}
		p64, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return false
		}

		memory = uint32(m64)
		timeCost = uint32(t64)
		threads = uint8(p64)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	check := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, check) == 1
}
