package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vyapar-labs/siterisk/internal/dataset"
	"github.com/vyapar-labs/siterisk/internal/geocode"
	"github.com/vyapar-labs/siterisk/internal/risk"
)

// appEnv holds the initialized dataset provider, geocode cascade, and
// analyzer shared by the serve/analyze/geocode commands.
type appEnv struct {
	Provider dataset.Provider
	Cascade  *geocode.Cascade
	Weights  risk.Weights
	Analyzer *risk.Analyzer
}

// Close releases resources held by the environment.
func (ae *appEnv) Close() {
	if ae.Provider != nil {
		_ = ae.Provider.Close()
	}
}

// initApp loads the datasets, builds the geocode cascade, and wires the
// analyzer. Callers should defer env.Close().
func initApp(ctx context.Context) (*appEnv, error) {
	provider, err := dataset.New(ctx, cfg.Dataset)
	if err != nil {
		return nil, err
	}

	areas, err := provider.Areas(ctx)
	if err != nil {
		_ = provider.Close()
		return nil, eris.Wrap(err, "load areas")
	}
	pincodes, err := provider.Pincodes(ctx)
	if err != nil {
		_ = provider.Close()
		return nil, eris.Wrap(err, "load pincodes")
	}

	resolvers := []geocode.Resolver{geocode.NewStaticResolver(areas, pincodes)}
	if cfg.Geocoder.External.BaseURL != "" {
		timeout := time.Duration(cfg.Geocoder.TimeoutSecs) * time.Second
		resolvers = append(resolvers, geocode.NewExternalResolver(cfg.Geocoder.External, timeout))
		zap.L().Info("external geocoder enabled", zap.String("base_url", cfg.Geocoder.External.BaseURL))
	}
	cascade := geocode.NewCascade(dataset.DefaultCentroid, resolvers...)

	weights := risk.DefaultWeights()
	if cfg.Scoring.ConfigPath != "" {
		weights, err = risk.LoadWeights(cfg.Scoring.ConfigPath)
		if err != nil {
			_ = provider.Close()
			return nil, err
		}
		zap.L().Info("scoring weights loaded", zap.String("path", cfg.Scoring.ConfigPath))
	}

	status, err := provider.Status(ctx)
	if err != nil {
		_ = provider.Close()
		return nil, eris.Wrap(err, "dataset status")
	}
	zap.L().Info("datasets ready",
		zap.String("source", status.Source),
		zap.Bool("degraded", status.Degraded),
		zap.Any("counts", status.Counts))

	return &appEnv{
		Provider: provider,
		Cascade:  cascade,
		Weights:  weights,
		Analyzer: risk.NewAnalyzer(provider, cascade, weights),
	}, nil
}
