package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sobremesalab/sobremesa/internal/auth"
	authdomain "github.com/sobremesalab/sobremesa/internal/auth/domain"
	"github.com/sobremesalab/sobremesa/internal/auth/session"
	"github.com/sobremesalab/sobremesa/internal/carta"
	cartadomain "github.com/sobremesalab/sobremesa/internal/carta/domain"
	"github.com/sobremesalab/sobremesa/internal/config"
	"github.com/sobremesalab/sobremesa/internal/observability"
	obslogger "github.com/sobremesalab/sobremesa/internal/observability/logger"
	obsmetrics "github.com/sobremesalab/sobremesa/internal/observability/metrics"
	obstracing "github.com/sobremesalab/sobremesa/internal/observability/tracing"
	"github.com/sobremesalab/sobremesa/internal/participacion"
	participaciondomain "github.com/sobremesalab/sobremesa/internal/participacion/domain"
	"github.com/sobremesalab/sobremesa/internal/ratelimit"
	"github.com/sobremesalab/sobremesa/internal/seleccion"
	selecciondomain "github.com/sobremesalab/sobremesa/internal/seleccion/domain"
	"github.com/sobremesalab/sobremesa/internal/sobremesa"
	sobremesadomain "github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	sobremesa.Module,
	carta.Module,
	participacion.Module,
	seleccion.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	authsvc         authdomain.Service
	sessions        *session.Manager
	genID           *snowflake.Node
	sobremesaSvc    sobremesadomain.Service
	cartaSvc        cartadomain.Service
	participaciones participaciondomain.Service
	seleccionSvc    selecciondomain.Service
	submitLimiter   *ratelimit.SubmitLimiter
	obsMetrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Authsvc         authdomain.Service
	Sessions        *session.Manager
	GenID           *snowflake.Node
	SobremesaSvc    sobremesadomain.Service
	CartaSvc        cartadomain.Service
	Participaciones participaciondomain.Service
	SeleccionSvc    selecciondomain.Service
	SubmitLimiter   *ratelimit.SubmitLimiter `optional:"true"`
	ObsMetrics      *obsmetrics.Metrics      `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		authsvc:         p.Authsvc,
		sessions:        p.Sessions,
		genID:           p.GenID,
		sobremesaSvc:    p.SobremesaSvc,
		cartaSvc:        p.CartaSvc,
		participaciones: p.Participaciones,
		seleccionSvc:    p.SeleccionSvc,
		submitLimiter:   p.SubmitLimiter,
		obsMetrics:      p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerSobremesaRoutes()
	svc.registerCartaRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")
	auth.POST("/register", s.Register)
	auth.GET("/me", s.AuthRequired(), s.Me)

	login := s.engine.Group("/login")
	login.POST("/common", s.Login)
	login.POST("/google", s.LoginGoogle)
	login.POST("/logout", s.Logout)

	s.engine.PATCH("/users/:id", s.AuthRequired(), s.UpdateUser)
}

func (s *Server) registerSobremesaRoutes() {
	group := s.engine.Group("/sobremesas")

	// The cartelera and individual sobremesas are browsable without a session.
	group.GET("/cartelera", s.Cartelera)
	group.GET("/:id", s.GetSobremesa)

	authed := group.Group("", s.AuthRequired())
	authed.GET("/mis-sobremesas/all", s.MisSobremesas)
	authed.POST("", s.CreateSobremesa)
	authed.PATCH("/:id/status", s.UpdateSobremesaStatus)
	authed.PATCH("/:id/meeting-link", s.UpdateMeetingLink)
	authed.GET("/:id/counts", s.SobremesaCounts)
}

func (s *Server) registerCartaRoutes() {
	group := s.engine.Group("/cartas", s.AuthRequired())
	group.POST("", s.CreateCarta)
	group.GET("/sobremesa/:sobremesa_id", s.ListCartas)
	group.PATCH("/:id/status", s.DecideCarta)
	group.GET("/check/:sobremesa_id", s.CheckCarta)
}
