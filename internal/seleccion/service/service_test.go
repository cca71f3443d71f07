package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/sobremesalab/sobremesa/internal/auth/domain"
	cartadomain "github.com/sobremesalab/sobremesa/internal/carta/domain"
	cartarepository "github.com/sobremesalab/sobremesa/internal/carta/repository"
	"github.com/sobremesalab/sobremesa/internal/clock"
	participaciondomain "github.com/sobremesalab/sobremesa/internal/participacion/domain"
	participacionrepository "github.com/sobremesalab/sobremesa/internal/participacion/repository"
	"github.com/sobremesalab/sobremesa/internal/seleccion/domain"
	sobremesadomain "github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	sobremesarepository "github.com/sobremesalab/sobremesa/internal/sobremesa/repository"
	"github.com/sobremesalab/sobremesa/pkg/db"
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
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&sobremesadomain.Sobremesa{},
		&cartadomain.CartaIntencion{},
		&participaciondomain.Participacion{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		Log:             zap.NewNop(),
		DB:              dbConn,
		Cartas:          cartarepository.NewRepository(dbConn),
		Sobremesas:      sobremesarepository.NewRepository(dbConn),
		Participaciones: participacionrepository.NewRepository(dbConn),
		GenID:           node,
		Clock:           fc,
	})

	return &testEnv{svc: svc, db: dbConn, node: node, clock: fc}
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

func (e *testEnv) createSobremesa(t *testing.T, convocanteID snowflake.ID, capacity int) snowflake.ID {
	t.Helper()
	now := e.clock.Now()
	s := &sobremesadomain.Sobremesa{
		ID:              e.node.Generate(),
		Title:           "Sobremesa de prueba",
		Description:     "Descripción",
		Slug:            "sobremesa-de-prueba",
		DateTime:        now.Add(48 * time.Hour),
		MaxParticipants: capacity,
		ConvocanteID:    convocanteID,
		Status:          sobremesadomain.StatusProposed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, e.db.Create(s).Error)
	return s.ID
}

func (e *testEnv) createCarta(t *testing.T, sobremesaID, userID snowflake.ID) snowflake.ID {
	t.Helper()
	carta := &cartadomain.CartaIntencion{
		ID:          e.node.Generate(),
		SobremesaID: sobremesaID,
		UserID:      userID,
		Text:        strings.TrimSpace(strings.Repeat("palabra ", 100)),
		Status:      cartadomain.StatusPending,
		CreatedAt:   e.clock.Now(),
	}
	require.NoError(t, e.db.Create(carta).Error)
	return carta.ID
}

func (e *testEnv) ledgerEntries(t *testing.T, sobremesaID snowflake.ID) []participaciondomain.Participacion {
	t.Helper()
	var entries []participaciondomain.Participacion
	require.NoError(t, e.db.Where("sobremesa_id = ?", sobremesaID).Find(&entries).Error)
	return entries
}

func TestDecideAcceptAppendsLedger(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")
	author := e.createUser(t, "autor")
	sobremesaID := e.createSobremesa(t, convocante, 6)
	cartaID := e.createCarta(t, sobremesaID, author)

	resp, err := e.svc.Decide(ctx, cartaID, convocante, domain.DecisionAccepted)
	require.NoError(t, err)
	assert.Equal(t, cartadomain.StatusAccepted, resp.Status)

	entries := e.ledgerEntries(t, sobremesaID)
	require.Len(t, entries, 1)
	assert.Equal(t, author, entries[0].UserID)
	assert.Equal(t, participaciondomain.RoleParticipant, entries[0].Role)
}

func TestDecideRejectLeavesLedgerEmpty(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")
	author := e.createUser(t, "autor")
	sobremesaID := e.createSobremesa(t, convocante, 6)
	cartaID := e.createCarta(t, sobremesaID, author)

	resp, err := e.svc.Decide(ctx, cartaID, convocante, domain.DecisionRejected)
	require.NoError(t, err)
	assert.Equal(t, cartadomain.StatusRejected, resp.Status)

	assert.Empty(t, e.ledgerEntries(t, sobremesaID))
}

func TestDecideTwiceFails(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")
	author := e.createUser(t, "autor")
	sobremesaID := e.createSobremesa(t, convocante, 6)
	cartaID := e.createCarta(t, sobremesaID, author)

	_, err := e.svc.Decide(ctx, cartaID, convocante, domain.DecisionAccepted)
	require.NoError(t, err)

	_, err = e.svc.Decide(ctx, cartaID, convocante, domain.DecisionRejected)
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)

	_, err = e.svc.Decide(ctx, cartaID, convocante, domain.DecisionAccepted)
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)

	// The original decision stands and the ledger holds a single entry.
	var carta cartadomain.CartaIntencion
	require.NoError(t, e.db.First(&carta, "id = ?", cartaID).Error)
	assert.Equal(t, cartadomain.StatusAccepted, carta.Status)
	assert.Len(t, e.ledgerEntries(t, sobremesaID), 1)
}

func TestDecideConcurrentDuplicates(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")
	author := e.createUser(t, "autor")
	sobremesaID := e.createSobremesa(t, convocante, 6)
	cartaID := e.createCarta(t, sobremesaID, author)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.svc.Decide(ctx, cartaID, convocante, domain.DecisionAccepted)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, alreadyDecided int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrAlreadyDecided):
			alreadyDecided++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, alreadyDecided)

	var carta cartadomain.CartaIntencion
	require.NoError(t, e.db.First(&carta, "id = ?", cartaID).Error)
	assert.Equal(t, cartadomain.StatusAccepted, carta.Status)
	assert.Len(t, e.ledgerEntries(t, sobremesaID), 1)
}

func TestDecideInvalidDecision(t *testing.T) {
	e := newTestEnv(t)
	convocante := e.createUser(t, "alicia")
	author := e.createUser(t, "autor")
	sobremesaID := e.createSobremesa(t, convocante, 6)
	cartaID := e.createCarta(t, sobremesaID, author)

	_, err := e.svc.Decide(context.Background(), cartaID, convocante, "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidDecision)
}

func TestDecideOnlyConvocante(t *testing.T) {
	e := newTestEnv(t)
	convocante := e.createUser(t, "alicia")
	author := e.createUser(t, "autor")
	intruder := e.createUser(t, "intruso")
	sobremesaID := e.createSobremesa(t, convocante, 6)
	cartaID := e.createCarta(t, sobremesaID, author)

	_, err := e.svc.Decide(context.Background(), cartaID, intruder, domain.DecisionAccepted)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.svc.Decide(context.Background(), cartaID, author, domain.DecisionAccepted)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDecideCartaNotFound(t *testing.T) {
	e := newTestEnv(t)
	convocante := e.createUser(t, "alicia")

	_, err := e.svc.Decide(context.Background(), e.node.Generate(), convocante, domain.DecisionAccepted)
	assert.ErrorIs(t, err, cartadomain.ErrNotFound)
}

func TestCounts(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	convocante := e.createUser(t, "alicia")
	sobremesaID := e.createSobremesa(t, convocante, 5)

	var cartaIDs []snowflake.ID
	for i := 0; i < 4; i++ {
		author := e.createUser(t, "autor")
		cartaIDs = append(cartaIDs, e.createCarta(t, sobremesaID, author))
	}

	_, err := e.svc.Decide(ctx, cartaIDs[0], convocante, domain.DecisionAccepted)
	require.NoError(t, err)
	_, err = e.svc.Decide(ctx, cartaIDs[1], convocante, domain.DecisionAccepted)
	require.NoError(t, err)
	_, err = e.svc.Decide(ctx, cartaIDs[2], convocante, domain.DecisionRejected)
	require.NoError(t, err)

	counts, err := e.svc.Counts(ctx, sobremesaID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Accepted)
	assert.Equal(t, int64(1), counts.Pending)
	assert.Equal(t, int64(3), counts.SpotsLeft)
}

func TestCountsSobremesaNotFound(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.Counts(context.Background(), e.node.Generate())
	assert.ErrorIs(t, err, sobremesadomain.ErrNotFound)
}
