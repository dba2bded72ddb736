package main

import (
	"github.com/naxum/tsa-backend/internal/clock"
	"github.com/naxum/tsa-backend/internal/config"
	"github.com/naxum/tsa-backend/internal/migration"
	"github.com/naxum/tsa-backend/internal/observability"
	"github.com/naxum/tsa-backend/internal/server"
	"github.com/naxum/tsa-backend/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}
