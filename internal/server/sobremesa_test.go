package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/sobremesalab/sobremesa/internal/auth/session"
	"github.com/sobremesalab/sobremesa/internal/config"
	sobremesadomain "github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	"github.com/sobremesalab/sobremesa/pkg/db/pagination"
)

type fakeSobremesaService struct {
	carteleraResp *sobremesadomain.CarteleraResponse
	getResp       *sobremesadomain.SobremesaResponse
}

func (f *fakeSobremesaService) Propose(ctx context.Context, convocanteID snowflake.ID, req sobremesadomain.ProposeRequest) (*sobremesadomain.SobremesaResponse, error) {
	_ = ctx
	_ = convocanteID
	_ = req
	return nil, sobremesadomain.ErrNotFound
}

func (f *fakeSobremesaService) GetByID(ctx context.Context, id snowflake.ID) (*sobremesadomain.SobremesaResponse, error) {
	_ = ctx
	_ = id
	return f.getResp, nil
}

func (f *fakeSobremesaService) Cartelera(ctx context.Context, page pagination.Pagination) (*sobremesadomain.CarteleraResponse, error) {
	_ = ctx
	_ = page
	return f.carteleraResp, nil
}

func (f *fakeSobremesaService) SetStatus(ctx context.Context, id, requesterID snowflake.ID, status string) (*sobremesadomain.SobremesaResponse, error) {
	_ = ctx
	_ = id
	_ = requesterID
	_ = status
	return nil, sobremesadomain.ErrNotFound
}

func (f *fakeSobremesaService) SetMeetingLink(ctx context.Context, id, requesterID snowflake.ID, link string) (*sobremesadomain.SobremesaResponse, error) {
	_ = ctx
	_ = id
	_ = requesterID
	_ = link
	return nil, sobremesadomain.ErrNotFound
}

func newSobremesaRouter(svc sobremesadomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	srv := &Server{
		engine:       router,
		sessions:     session.NewManager(config.Config{}),
		sobremesaSvc: svc,
	}
	srv.registerSobremesaRoutes()
	return router
}

func TestSobremesaRoutesPublicReads(t *testing.T) {
	svc := &fakeSobremesaService{
		carteleraResp: &sobremesadomain.CarteleraResponse{
			Sobremesas: []*sobremesadomain.SobremesaResponse{},
			PageInfo:   &pagination.PageInfo{},
		},
		getResp: &sobremesadomain.SobremesaResponse{ID: "42", Status: sobremesadomain.StatusProposed},
	}
	router := newSobremesaRouter(svc)

	// Anyone may browse the cartelera and individual sobremesas.
	for _, path := range []string{"/sobremesas/cartelera", "/sobremesas/42"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("GET %s without a session: expected status 200, got %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestSobremesaRoutesWritesRequireAuth(t *testing.T) {
	router := newSobremesaRouter(&fakeSobremesaService{})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/sobremesas"},
		{http.MethodPatch, "/sobremesas/42/status"},
		{http.MethodPatch, "/sobremesas/42/meeting-link"},
		{http.MethodGet, "/sobremesas/42/counts"},
		{http.MethodGet, "/sobremesas/mis-sobremesas/all"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without a session: expected status 401, got %d", tc.method, tc.path, resp.Code)
		}
	}
}
