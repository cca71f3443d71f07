package main

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/sobremesalab/sobremesa/internal/clock"
	"github.com/sobremesalab/sobremesa/internal/config"
	"github.com/sobremesalab/sobremesa/internal/migration"
	"github.com/sobremesalab/sobremesa/internal/observability"
	"github.com/sobremesalab/sobremesa/internal/server"
	"github.com/sobremesalab/sobremesa/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

// RegisterSnowflake builds the process-wide id generator. The node id
// must differ between replicas or ids will collide.
func RegisterSnowflake() (*snowflake.Node, error) {
	nodeID := int64(1)
	if raw := os.Getenv("SNOWFLAKE_NODE_ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		nodeID = parsed
	}
	return snowflake.NewNode(nodeID)
}
