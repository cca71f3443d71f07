package carta

import (
	"github.com/sobremesalab/sobremesa/internal/carta/repository"
	"github.com/sobremesalab/sobremesa/internal/carta/service"
	"go.uber.org/fx"
)

var Module = fx.Module("carta.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
