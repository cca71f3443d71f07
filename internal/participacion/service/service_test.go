package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/sobremesalab/sobremesa/internal/auth/domain"
	"github.com/sobremesalab/sobremesa/internal/participacion/domain"
	"github.com/sobremesalab/sobremesa/internal/participacion/repository"
	sobremesadomain "github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	"github.com/sobremesalab/sobremesa/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type testEnv struct {
	svc  domain.Service
	repo domain.Repository
	db   *gorm.DB
	node *snowflake.Node
	now  time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&sobremesadomain.Sobremesa{},
		&domain.Participacion{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := repository.NewRepository(dbConn)
	return &testEnv{
		svc:  NewService(zap.NewNop(), repo),
		repo: repo,
		db:   dbConn,
		node: node,
		now:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) createUser(t *testing.T, name string) snowflake.ID {
	t.Helper()
	id := e.node.Generate()
	user := &authdomain.User{
		ID:       id,
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, id),
		Context:  "Contexto de " + name,
		Metadata: datatypes.JSONMap{},
	}
	require.NoError(t, e.db.Create(user).Error)
	return user.ID
}

func (e *testEnv) createSobremesa(t *testing.T, convocanteID snowflake.ID, title string) snowflake.ID {
	t.Helper()
	s := &sobremesadomain.Sobremesa{
		ID:              e.node.Generate(),
		Title:           title,
		Description:     "Descripción",
		Slug:            "slug",
		DateTime:        e.now.Add(48 * time.Hour),
		MaxParticipants: 6,
		ConvocanteID:    convocanteID,
		Status:          sobremesadomain.StatusProposed,
		CreatedAt:       e.now,
		UpdatedAt:       e.now,
	}
	require.NoError(t, e.db.Create(s).Error)
	return s.ID
}

func (e *testEnv) append(t *testing.T, sobremesaID, userID snowflake.ID, role string, at time.Time) {
	t.Helper()
	require.NoError(t, e.repo.Append(context.Background(), domain.Participacion{
		ID:          e.node.Generate(),
		SobremesaID: sobremesaID,
		UserID:      userID,
		Role:        role,
		CreatedAt:   at,
	}))
}

func TestListMineRolesAndOrder(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	alicia := e.createUser(t, "alicia")
	bruno := e.createUser(t, "bruno")

	mine := e.createSobremesa(t, alicia, "La mía")
	theirs := e.createSobremesa(t, bruno, "La de Bruno")

	e.append(t, mine, alicia, domain.RoleConvocante, e.now)
	e.append(t, theirs, bruno, domain.RoleConvocante, e.now)
	e.append(t, theirs, alicia, domain.RoleParticipant, e.now.Add(time.Hour))

	items, err := e.svc.ListMine(ctx, alicia)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Most recent participation first.
	assert.Equal(t, "La de Bruno", items[0].Title)
	assert.Equal(t, domain.RoleParticipant, items[0].MyRole)
	assert.Equal(t, "bruno", items[0].Convocante.Name)

	assert.Equal(t, "La mía", items[1].Title)
	assert.Equal(t, domain.RoleConvocante, items[1].MyRole)
	assert.Equal(t, "alicia", items[1].Convocante.Name)
}

func TestListMineEmpty(t *testing.T) {
	e := newTestEnv(t)

	items, err := e.svc.ListMine(context.Background(), e.createUser(t, "solo"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListMineInvalidUser(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.ListMine(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func TestAppendIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	alicia := e.createUser(t, "alicia")
	bruno := e.createUser(t, "bruno")
	sobremesaID := e.createSobremesa(t, bruno, "Repetida")

	e.append(t, sobremesaID, alicia, domain.RoleParticipant, e.now)
	e.append(t, sobremesaID, alicia, domain.RoleParticipant, e.now.Add(time.Minute))

	var count int64
	require.NoError(t, e.db.Model(&domain.Participacion{}).
		Where("sobremesa_id = ? AND user_id = ?", sobremesaID, alicia).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	exists, err := e.repo.Exists(ctx, sobremesaID, alicia)
	require.NoError(t, err)
	assert.True(t, exists)
}
