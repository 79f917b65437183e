// Package dataset loads and serves the read-only datasets behind the risk
// analysis: the area and pincode lookup tables, the future event set, points
// of interest, and the alternative-location base risk table.
package dataset

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/vyapar-labs/siterisk/internal/config"
	"github.com/vyapar-labs/siterisk/internal/model"
)

// Provider serves the datasets the analyzer consumes. Implementations load
// once at construction; returned slices are shared and must not be mutated.
type Provider interface {
	Areas(ctx context.Context) ([]model.Area, error)
	Pincodes(ctx context.Context) ([]model.Pincode, error)
	Events(ctx context.Context) ([]model.Event, error)
	POIs(ctx context.Context) ([]model.POI, error)
	Alternatives(ctx context.Context) ([]model.Alternative, error)
	Status(ctx context.Context) (model.DatasetStatus, error)
	Close() error
}

// New constructs the Provider selected by cfg.Driver.
func New(ctx context.Context, cfg config.DatasetConfig) (Provider, error) {
	switch cfg.Driver {
	case "static":
		return NewStatic(), nil
	case "file":
		return NewFile(ctx, cfg.EventsPath, cfg.PointsPath), nil
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "siterisk.db"
		}
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, cfg.DSN, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
	default:
		return nil, eris.Errorf("dataset: unsupported driver %q", cfg.Driver)
	}
}
