package seleccion

import (
	"github.com/sobremesalab/sobremesa/internal/seleccion/service"
	"go.uber.org/fx"
)

var Module = fx.Module("seleccion.service",
	fx.Provide(service.NewService),
)
