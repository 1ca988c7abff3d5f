package main

import (
	"io"
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"well-analysis/internal/app"
	"well-analysis/internal/config"
	logs "well-analysis/internal/logs/domain"
	petrophysics "well-analysis/internal/petrophysics/domain"
	wellsapp "well-analysis/internal/wells/application"
)

func TestGenerateCurvesIsDeterministicAndClamped(t *testing.T) {
	a := generateCurves(rand.New(rand.NewPCG(7, 7)), 2800, 2900, 0.5)
	b := generateCurves(rand.New(rand.NewPCG(7, 7)), 2800, 2900, 0.5)

	require.Len(t, a.Depths, 200)
	assert.Equal(t, 2800.0, a.Depths[0])
	assert.Equal(t, 2899.5, a.Depths[len(a.Depths)-1])
	assert.Equal(t, a.Values, b.Values)

	bounds := map[logs.CurveType][2]float64{
		logs.CurveGammaRay:             {15, 150},
		logs.CurveResistivity:          {0.5, 200},
		logs.CurveDensity:              {2.0, 2.8},
		logs.CurveNeutron:              {0, 0.45},
		logs.CurveSpontaneousPotential: {-100, 20},
	}
	require.Len(t, a.Values, len(bounds))
	for curve, lim := range bounds {
		values := a.Values[curve]
		require.Len(t, values, len(a.Depths), curve)
		for _, v := range values {
			assert.GreaterOrEqual(t, v, lim[0], curve)
			assert.LessOrEqual(t, v, lim[1], curve)
		}
	}
}

func TestGenerateCurvesSeparatesShaleFromSand(t *testing.T) {
	c := generateCurves(rand.New(rand.NewPCG(1, 2)), 0, 75, 0.5)
	gr := c.Values[logs.CurveGammaRay]
	// First bed is shale, second is sand; compare bed centres.
	assert.Greater(t, mean(gr[20:30]), 90.0)
	assert.Less(t, mean(gr[70:80]), 60.0)
}

func TestMovingAverageKeepsLength(t *testing.T) {
	out := movingAverage([]float64{0, 0, 10, 0, 0}, 2)
	assert.Equal(t, []float64{0, 0, 5, 5, 0}, out)
}

func TestRunSeedsAndReplacesDemoData(t *testing.T) {
	cfg := config.Default()
	cfg.Storage = config.StorageMemory
	cfg.JWTSecret = "seed-secret"
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	stores := app.NewMemoryStores(logger, 10)
	services, err := app.NewServices(cfg, stores, logger)
	require.NoError(t, err)

	opts := options{username: "demo", email: "demo@example.com", password: "demo123", seed: 42, from: 2800, to: 2810, step: 0.5}
	require.NoError(t, run(t.Context(), opts, stores, services, logger))
	require.NoError(t, run(t.Context(), opts, stores, services, logger))

	user, err := stores.Users.FindByLogin(t.Context(), "demo")
	require.NoError(t, err)
	page, err := services.Wells.List(t.Context(), wellsapp.ListQuery{OwnerID: user.ID})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	var primaryID string
	for _, w := range page.Wells {
		if w.Name == "HMD-101" {
			primaryID = w.ID
		}
	}
	require.NotEmpty(t, primaryID)

	stats, err := services.Wells.Stats(t.Context(), primaryID)
	require.NoError(t, err)
	assert.Equal(t, 100, stats.SampleCount)
	assert.Equal(t, len(interpretedZones), stats.ZoneCount)

	zones, err := stores.Zones.ListByWell(t.Context(), primaryID)
	require.NoError(t, err)
	for _, z := range zones {
		assert.Equal(t, petrophysics.ProvenanceSeed, z.Provenance)
		require.NoError(t, z.Validate())
	}
}

func TestRunRejectsBadRange(t *testing.T) {
	err := run(t.Context(), options{from: 10, to: 5, step: 1}, nil, nil, logrus.New())
	assert.Error(t, err)
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
