package auth

import (
	"github.com/sobremesalab/sobremesa/internal/auth/google"
	"github.com/sobremesalab/sobremesa/internal/auth/repository"
	"github.com/sobremesalab/sobremesa/internal/auth/service"
	"github.com/sobremesalab/sobremesa/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(google.NewVerifier),
	fx.Provide(session.NewManager),
	fx.Provide(service.New),
)
