package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyapar-labs/siterisk/internal/config"
	"github.com/vyapar-labs/siterisk/internal/geocode"
)

func TestAppEnv_Close_Nil(t *testing.T) {
	// Close with all nil fields should not panic.
	ae := &appEnv{}
	assert.NotPanics(t, func() {
		ae.Close()
	})
}

func TestInitApp_StaticDriver(t *testing.T) {
	cfg = &config.Config{
		Dataset: config.DatasetConfig{
			Driver: "static",
		},
	}

	env, err := initApp(context.Background())
	require.NoError(t, err)
	require.NotNil(t, env)
	defer env.Close()

	assert.NotNil(t, env.Provider)
	assert.NotNil(t, env.Cascade)
	assert.NotNil(t, env.Analyzer)
	assert.Equal(t, 50.0, env.Weights.Score.Base)

	// The cascade resolves known areas from the static tables.
	loc := env.Cascade.Resolve(context.Background(), geocode.Query{Location: "Connaught Place"})
	assert.Equal(t, "area", loc.Source)
}

func TestInitApp_FailsOnBadDriver(t *testing.T) {
	cfg = &config.Config{
		Dataset: config.DatasetConfig{
			Driver: "mongodb",
		},
	}

	env, err := initApp(context.Background())
	assert.Nil(t, env)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestInitApp_FailsOnMissingWeightsFile(t *testing.T) {
	cfg = &config.Config{
		Dataset: config.DatasetConfig{
			Driver: "static",
		},
		Scoring: config.ScoringConfig{
			ConfigPath: filepath.Join(t.TempDir(), "nope.yaml"),
		},
	}

	env, err := initApp(context.Background())
	assert.Nil(t, env)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read weights")
}

func TestInitApp_LoadsWeightsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	content := `
scoring:
  score:
    base: 55
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg = &config.Config{
		Dataset: config.DatasetConfig{
			Driver: "static",
		},
		Scoring: config.ScoringConfig{
			ConfigPath: path,
		},
	}

	env, err := initApp(context.Background())
	require.NoError(t, err)
	defer env.Close()

	assert.Equal(t, 55.0, env.Weights.Score.Base)
	// Unset fields keep their defaults.
	assert.Equal(t, 40.0, env.Weights.Score.NegativeWeight)
}

func TestInitApp_FileDriverDegradesOnMissingData(t *testing.T) {
	tmpDir := t.TempDir()
	cfg = &config.Config{
		Dataset: config.DatasetConfig{
			Driver:     "file",
			EventsPath: filepath.Join(tmpDir, "missing_events.json"),
			PointsPath: filepath.Join(tmpDir, "missing_points.geojson"),
		},
	}

	env, err := initApp(context.Background())
	require.NoError(t, err)
	defer env.Close()

	status, err := env.Provider.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file", status.Source)
	assert.True(t, status.Degraded)
}
