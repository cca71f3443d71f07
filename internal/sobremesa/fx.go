package sobremesa

import (
	"github.com/sobremesalab/sobremesa/internal/sobremesa/repository"
	"github.com/sobremesalab/sobremesa/internal/sobremesa/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sobremesa.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
