package participacion

import (
	"github.com/sobremesalab/sobremesa/internal/participacion/repository"
	"github.com/sobremesalab/sobremesa/internal/participacion/service"
	"go.uber.org/fx"
)

var Module = fx.Module("participacion.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
