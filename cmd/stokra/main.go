package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/smallbiznis/stokra/internal/clock"
	"github.com/smallbiznis/stokra/internal/config"
	"github.com/smallbiznis/stokra/internal/migration"
	"github.com/smallbiznis/stokra/internal/server"
	"github.com/smallbiznis/stokra/pkg/db"
	"github.com/smallbiznis/stokra/pkg/log"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
