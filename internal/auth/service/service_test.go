package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sobremesalab/sobremesa/internal/auth/domain"
	"github.com/sobremesalab/sobremesa/internal/auth/google"
	"github.com/sobremesalab/sobremesa/internal/auth/repository"
	"github.com/sobremesalab/sobremesa/internal/clock"
	"github.com/sobremesalab/sobremesa/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGoogleVerifier struct {
	claims *google.Claims
	err    error
}

func (f *fakeGoogleVerifier) Verify(ctx context.Context, rawIDToken string) (*google.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func newTestService(t *testing.T, fake *fakeGoogleVerifier) (domain.Service, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.User{}, &domain.Session{}))

	repo, sessionRepo := repository.New(dbConn)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	if fake == nil {
		fake = &fakeGoogleVerifier{err: google.ErrNotConfigured}
	}

	svc := New(Params{
		Log:         zap.NewNop(),
		Repo:        repo,
		SessionRepo: sessionRepo,
		GenID:       node,
		Clock:       fc,
		Google:      fake,
	})
	return svc, fc
}

func register(t *testing.T, svc domain.Service, email string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name:     "Alicia",
		Email:    email,
		Password: "correct-password",
		Context:  "Filosofía y cocina",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{
		Email: "a@example.com", Password: "long-enough", Context: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Register(ctx, domain.RegisterRequest{
		Name: "Alicia", Email: "a@example.com", Password: "long-enough",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidContext)

	_, err = svc.Register(ctx, domain.RegisterRequest{
		Name: "Alicia", Email: "not-an-email", Password: "long-enough", Context: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Register(ctx, domain.RegisterRequest{
		Name: "Alicia", Email: "a@example.com", Password: "short", Context: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t, nil)

	register(t, svc, "alice@example.com")

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name:     "Otra Alicia",
		Email:    "alice@example.com",
		Password: "another-password",
		Context:  "Historia",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	svc, _ := newTestService(t, nil)

	user := register(t, svc, "alice@example.com")
	require.NotNil(t, user.PasswordHash)
	assert.NotContains(t, *user.PasswordHash, "correct-password")
	assert.Contains(t, *user.PasswordHash, "$argon2id$")
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t, nil)

	register(t, svc, "alice@example.com")

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	user := register(t, svc, "alice@example.com")

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)

	session, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	svc, fc := newTestService(t, nil)
	ctx := context.Background()

	register(t, svc, "alice@example.com")
	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	fc.Advance(7*24*time.Hour + time.Minute)

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	register(t, svc, "alice@example.com")
	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestLoginWithGoogleCreatesUser(t *testing.T) {
	fake := &fakeGoogleVerifier{claims: &google.Claims{
		Subject:       "google-sub-1",
		Email:         "bob@example.com",
		EmailVerified: true,
		Name:          "Bob",
		Picture:       "https://example.com/bob.png",
	}}
	svc, _ := newTestService(t, fake)
	ctx := context.Background()

	result, err := svc.LoginWithGoogle(ctx, domain.GoogleLoginRequest{IDToken: "raw-token"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", result.User.Name)
	require.NotNil(t, result.User.GoogleID)
	assert.Equal(t, "google-sub-1", *result.User.GoogleID)

	// Same subject logs into the same account.
	again, err := svc.LoginWithGoogle(ctx, domain.GoogleLoginRequest{IDToken: "raw-token"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, again.User.ID)
}

func TestLoginWithGoogleLinksExistingAccount(t *testing.T) {
	fake := &fakeGoogleVerifier{claims: &google.Claims{
		Subject:       "google-sub-2",
		Email:         "alice@example.com",
		EmailVerified: true,
		Name:          "Alicia G",
	}}
	svc, _ := newTestService(t, fake)
	ctx := context.Background()

	user := register(t, svc, "alice@example.com")

	result, err := svc.LoginWithGoogle(ctx, domain.GoogleLoginRequest{IDToken: "raw-token"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	require.NotNil(t, result.User.GoogleID)
	assert.Equal(t, "google-sub-2", *result.User.GoogleID)
}

func TestLoginWithGoogleUnverifiedEmail(t *testing.T) {
	fake := &fakeGoogleVerifier{claims: &google.Claims{
		Subject: "google-sub-3",
		Email:   "eve@example.com",
	}}
	svc, _ := newTestService(t, fake)

	_, err := svc.LoginWithGoogle(context.Background(), domain.GoogleLoginRequest{IDToken: "raw-token"})
	assert.ErrorIs(t, err, domain.ErrInvalidGoogleToken)
}

func TestLoginWithGoogleRejectedToken(t *testing.T) {
	fake := &fakeGoogleVerifier{err: errors.New("bad signature")}
	svc, _ := newTestService(t, fake)

	_, err := svc.LoginWithGoogle(context.Background(), domain.GoogleLoginRequest{IDToken: "raw-token"})
	assert.ErrorIs(t, err, domain.ErrInvalidGoogleToken)
}

func TestUpdateProfileSelfOnly(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	alice := register(t, svc, "alice@example.com")
	bob := register(t, svc, "bob@example.com")

	name := "Intruso"
	_, err := svc.UpdateProfile(ctx, alice.ID, bob.ID, domain.UpdateProfileRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateProfileFields(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	alice := register(t, svc, "alice@example.com")

	empty := ""
	bio := "Nueva bio"
	updated, err := svc.UpdateProfile(ctx, alice.ID, alice.ID, domain.UpdateProfileRequest{
		Name: &empty,
		Bio:  &bio,
	})
	require.NoError(t, err)

	// Empty name is ignored, bio accepts any value including empty.
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "Nueva bio", updated.Bio)

	updated, err = svc.UpdateProfile(ctx, alice.ID, alice.ID, domain.UpdateProfileRequest{Bio: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Bio)
}

func TestVerifyPasswordRoundtrip(t *testing.T) {
	encoded, err := hashPassword("sup3r-secreto")
	require.NoError(t, err)

	assert.True(t, verifyPassword("sup3r-secreto", encoded))
	assert.False(t, verifyPassword("otro-secreto", encoded))
	assert.False(t, verifyPassword("sup3r-secreto", "$argon2id$v=19$garbage"))
}
