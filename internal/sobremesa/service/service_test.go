package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/sobremesalab/sobremesa/internal/auth/domain"
	authrepository "github.com/sobremesalab/sobremesa/internal/auth/repository"
	"github.com/sobremesalab/sobremesa/internal/clock"
	participaciondomain "github.com/sobremesalab/sobremesa/internal/participacion/domain"
	participacionrepository "github.com/sobremesalab/sobremesa/internal/participacion/repository"
	"github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	"github.com/sobremesalab/sobremesa/internal/sobremesa/repository"
	"github.com/sobremesalab/sobremesa/pkg/db"
	"github.com/sobremesalab/sobremesa/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type testEnv struct {
	svc   domain.Service
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	users authdomain.Repository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&domain.Sobremesa{},
		&participaciondomain.Participacion{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users, _ := authrepository.New(dbConn)
	fc := clock.NewFakeClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		Log:             zap.NewNop(),
		DB:              dbConn,
		Repo:            repository.NewRepository(dbConn),
		Participaciones: participacionrepository.NewRepository(dbConn),
		Users:           users,
		GenID:           node,
		Clock:           fc,
	})

	return &testEnv{svc: svc, db: dbConn, node: node, clock: fc, users: users}
}

func (e *testEnv) createUser(t *testing.T, name string) *authdomain.User {
	t.Helper()
	id := e.node.Generate()
	user := &authdomain.User{
		ID:       id,
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, id),
		Context:  "Contexto de " + name,
		Metadata: datatypes.JSONMap{},
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func proposeRequest(e *testEnv) domain.ProposeRequest {
	return domain.ProposeRequest{
		Title:           "Sobremesa de filosofía",
		Description:     "Una charla sobre estoicismo después de comer.",
		DateTime:        e.clock.Now().Add(48 * time.Hour),
		MaxParticipants: 6,
	}
}

func TestProposeCreatesLedgerEntry(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")

	resp, err := e.svc.Propose(ctx, convocante.ID, proposeRequest(e))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProposed, resp.Status)
	assert.Equal(t, "sobremesa-de-filosofia", resp.Slug)
	require.NotNil(t, resp.Convocante)
	assert.Equal(t, convocante.Name, resp.Convocante.Name)

	var entries []participaciondomain.Participacion
	require.NoError(t, e.db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, convocante.ID, entries[0].UserID)
	assert.Equal(t, participaciondomain.RoleConvocante, entries[0].Role)
}

func TestProposeValidation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")

	req := proposeRequest(e)
	req.Title = "   "
	_, err := e.svc.Propose(ctx, convocante.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	req = proposeRequest(e)
	req.Description = ""
	_, err = e.svc.Propose(ctx, convocante.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)
}

func TestProposeDateMustBeFuture(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")

	req := proposeRequest(e)
	req.DateTime = e.clock.Now()
	_, err := e.svc.Propose(ctx, convocante.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDateTime)

	req.DateTime = e.clock.Now().Add(-time.Hour)
	_, err = e.svc.Propose(ctx, convocante.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDateTime)

	req.DateTime = e.clock.Now().Add(time.Second)
	_, err = e.svc.Propose(ctx, convocante.ID, req)
	assert.NoError(t, err)
}

func TestProposeCapacityBounds(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")

	for _, capacity := range []int{3, 16, 0, -1} {
		req := proposeRequest(e)
		req.MaxParticipants = capacity
		_, err := e.svc.Propose(ctx, convocante.ID, req)
		assert.ErrorIs(t, err, domain.ErrInvalidCapacity, "capacity %d", capacity)
	}

	for _, capacity := range []int{4, 15} {
		req := proposeRequest(e)
		req.MaxParticipants = capacity
		_, err := e.svc.Propose(ctx, convocante.ID, req)
		assert.NoError(t, err, "capacity %d", capacity)
	}
}

func TestSetStatusOnlyConvocante(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")
	other := e.createUser(t, "bruno")

	resp, err := e.svc.Propose(ctx, convocante.ID, proposeRequest(e))
	require.NoError(t, err)
	id, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	_, err = e.svc.SetStatus(ctx, id, other.ID, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.svc.SetStatus(ctx, id, convocante.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	updated, err := e.svc.SetStatus(ctx, id, convocante.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
}

func TestSetMeetingLink(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")
	other := e.createUser(t, "bruno")

	resp, err := e.svc.Propose(ctx, convocante.ID, proposeRequest(e))
	require.NoError(t, err)
	id, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	_, err = e.svc.SetMeetingLink(ctx, id, convocante.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidMeetingLink)

	_, err = e.svc.SetMeetingLink(ctx, id, other.ID, "https://meet.example.com/x")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := e.svc.SetMeetingLink(ctx, id, convocante.ID, "https://meet.example.com/x")
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/x", updated.MeetingLink)
}

func TestGetByIDNotFound(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.GetByID(context.Background(), e.node.Generate())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCarteleraPagination(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")

	for i := 0; i < 5; i++ {
		req := proposeRequest(e)
		_, err := e.svc.Propose(ctx, convocante.ID, req)
		require.NoError(t, err)
		e.clock.Advance(time.Minute)
	}

	first, err := e.svc.Cartelera(ctx, pagination.Pagination{PageSize: 3})
	require.NoError(t, err)
	require.Len(t, first.Sobremesas, 3)
	require.NotNil(t, first.PageInfo)
	require.True(t, first.PageInfo.HasMore)
	require.NotEmpty(t, first.PageInfo.NextPageToken)

	// Newest first.
	assert.True(t, first.Sobremesas[0].CreatedAt.After(first.Sobremesas[1].CreatedAt))

	second, err := e.svc.Cartelera(ctx, pagination.Pagination{
		PageSize:  3,
		PageToken: first.PageInfo.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, second.Sobremesas, 2)
	assert.False(t, second.PageInfo.HasMore)

	seen := map[string]bool{}
	for _, item := range append(first.Sobremesas, second.Sobremesas...) {
		assert.False(t, seen[item.ID], "duplicate item %s across pages", item.ID)
		seen[item.ID] = true
	}
}

func TestCarteleraOnlyProposed(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")

	resp, err := e.svc.Propose(ctx, convocante.ID, proposeRequest(e))
	require.NoError(t, err)
	id, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)
	_, err = e.svc.SetStatus(ctx, id, convocante.ID, domain.StatusCancelled)
	require.NoError(t, err)

	e.clock.Advance(time.Minute)
	_, err = e.svc.Propose(ctx, convocante.ID, proposeRequest(e))
	require.NoError(t, err)

	page, err := e.svc.Cartelera(ctx, pagination.Pagination{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Sobremesas, 1)
	assert.Equal(t, domain.StatusProposed, page.Sobremesas[0].Status)
}
