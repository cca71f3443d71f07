package migration

import (
	authdomain "github.com/sobremesalab/sobremesa/internal/auth/domain"
	cartadomain "github.com/sobremesalab/sobremesa/internal/carta/domain"
	"github.com/sobremesalab/sobremesa/internal/config"
	participaciondomain "github.com/sobremesalab/sobremesa/internal/participacion/domain"
	sobremesadomain "github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// sqlite has no versioned migration path; AutoMigrate covers
		// local development.
		return conn.AutoMigrate(
			&authdomain.User{},
			&authdomain.Session{},
			&sobremesadomain.Sobremesa{},
			&cartadomain.CartaIntencion{},
			&participaciondomain.Participacion{},
		)
	}),
)
