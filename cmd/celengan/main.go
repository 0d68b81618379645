package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/celenganapp/celengan/internal/clock"
	"github.com/celenganapp/celengan/internal/config"
	"github.com/celenganapp/celengan/internal/logger"
	"github.com/celenganapp/celengan/internal/migration"
	"github.com/celenganapp/celengan/internal/server"
	"github.com/celenganapp/celengan/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// HTTP surface plus the domain modules it serves
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
