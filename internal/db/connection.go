package db

import (
	"context"
	"fmt"

	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/db/drivers"
)

func NewConnection(ctx context.Context, config *config.Config) (drivers.Driver, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("db config is not set")
	}

	driver := config.DB.Driver

	if driver == "sqlite" {
		return drivers.NewSQLiteDriver(ctx, config.DB.DSN)
	} else if driver == "pg" {
		return drivers.NewPGDriver(ctx, config.DB.DSN)
	}

	return nil, fmt.Errorf("invalid database driver: %s", driver)
}
