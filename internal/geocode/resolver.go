// Package geocode resolves free-text locations and postal codes to
// coordinates via a resolver cascade with a city-centroid fallback.
package geocode

import (
	"context"

	"go.uber.org/zap"

	"github.com/vyapar-labs/siterisk/internal/model"
)

// Query is a geocoding request. Either field may be empty.
type Query struct {
	Location string
	Pincode  string
}

// Result is a single resolver's answer.
type Result struct {
	Coordinate model.Coordinate
	Area       string
	Pincode    string
	Source     string
	Matched    bool
}

// Resolver is a single geocoding backend.
type Resolver interface {
	Name() string
	Available() bool
	Resolve(ctx context.Context, q Query) (*Result, error)
}

// Cascade tries resolvers in order until one matches. When every resolver
// misses or fails, it falls back to the configured centroid, so resolution
// never fails.
type Cascade struct {
	resolvers []Resolver
	fallback  model.Coordinate
}

// NewCascade creates a Cascade that tries resolvers in order and answers
// unmatched queries with the fallback coordinate.
func NewCascade(fallback model.Coordinate, resolvers ...Resolver) *Cascade {
	return &Cascade{resolvers: resolvers, fallback: fallback}
}

// Resolve returns the first match from the cascade. Resolver errors are
// absorbed: the cascade moves on to the next backend.
func (c *Cascade) Resolve(ctx context.Context, q Query) model.ResolvedLocation {
	for _, r := range c.resolvers {
		if !r.Available() {
			continue
		}
		res, err := r.Resolve(ctx, q)
		if err != nil {
			zap.L().Debug("geocode: resolver error, trying next",
				zap.String("resolver", r.Name()),
				zap.Error(err),
			)
			continue
		}
		if res != nil && res.Matched {
			return model.ResolvedLocation{
				Lat:     res.Coordinate.Lat,
				Lng:     res.Coordinate.Lng,
				Area:    res.Area,
				Pincode: res.Pincode,
				Source:  res.Source,
				Matched: true,
			}
		}
	}
	return model.ResolvedLocation{
		Lat:    c.fallback.Lat,
		Lng:    c.fallback.Lng,
		Source: "default",
	}
}
