// Command seed loads a demo account with two wells, synthetic curves and a
// set of interpreted zones. Existing demo wells are replaced.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	accountsapp "well-analysis/internal/accounts/application"
	accounts "well-analysis/internal/accounts/domain"
	"well-analysis/internal/app"
	"well-analysis/internal/config"
	logs "well-analysis/internal/logs/domain"
	"well-analysis/internal/observability/logging"
	petrophysics "well-analysis/internal/petrophysics/domain"
	wellsapp "well-analysis/internal/wells/application"
)

type options struct {
	username string
	email    string
	password string
	seed     uint64
	from     float64
	to       float64
	step     float64
}

func main() {
	opts := parseOptions()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		logrus.Fatalf("logger error: %v", err)
	}
	if cfg.Storage == config.StorageMemory {
		logger.Warn("memory storage selected; seeded data is discarded on exit")
	}

	ctx := context.Background()
	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("storage error: %v", err)
	}
	defer stores.Close()

	services, err := app.NewServices(cfg, stores, logger)
	if err != nil {
		logger.Fatalf("service wiring error: %v", err)
	}

	if err := run(ctx, opts, stores, services, logger); err != nil {
		logger.Fatalf("seed: %v", err)
	}
}

func parseOptions() options {
	var opts options
	flag.StringVar(&opts.username, "username", "demo", "demo account username")
	flag.StringVar(&opts.email, "email", "demo@example.com", "demo account email")
	flag.StringVar(&opts.password, "password", "demo123", "demo account password")
	flag.Uint64Var(&opts.seed, "seed", 42, "random seed for synthetic curves")
	flag.Float64Var(&opts.from, "depth-from", 2800, "first sample depth (m)")
	flag.Float64Var(&opts.to, "depth-to", 3200, "sampling stops before this depth (m)")
	flag.Float64Var(&opts.step, "step", 0.5, "sampling step (m)")
	flag.Parse()
	return opts
}

func run(ctx context.Context, opts options, stores *app.Stores, services *app.Services, logger logrus.FieldLogger) error {
	if opts.step <= 0 || !(opts.from < opts.to) {
		return fmt.Errorf("invalid depth range %.2f-%.2f step %.2f", opts.from, opts.to, opts.step)
	}

	user, err := demoUser(ctx, opts, stores, services)
	if err != nil {
		return err
	}
	logger.WithField("user", user.Username).Info("demo user ready")

	if err := clearWells(ctx, services.Wells, user.ID); err != nil {
		return err
	}

	primary, err := services.Wells.Create(ctx, user.ID, wellsapp.WellInput{
		Name:        ptr("HMD-101"),
		FieldName:   ptr("Hassi Messaoud"),
		Location:    ptr("Algeria - Block 438"),
		Latitude:    ptr(31.6667),
		Longitude:   ptr(6.0667),
		DepthTotal:  ptr(3500.0),
		Status:      ptr("active"),
		Description: ptr("Exploration well, Cambrian reservoir. Demonstration data."),
	})
	if err != nil {
		return fmt.Errorf("create HMD-101: %w", err)
	}
	secondary, err := services.Wells.Create(ctx, user.ID, wellsapp.WellInput{
		Name:        ptr("ORD-205"),
		FieldName:   ptr("Oued Righ"),
		Location:    ptr("Algeria - Block 404"),
		Latitude:    ptr(33.5),
		Longitude:   ptr(5.95),
		DepthTotal:  ptr(2800.0),
		Status:      ptr("drilling"),
		Description: ptr("Well being drilled, Triassic target."),
	})
	if err != nil {
		return fmt.Errorf("create ORD-205: %w", err)
	}
	logger.WithFields(logrus.Fields{"primary": primary.ID, "secondary": secondary.ID}).Info("wells created")

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	curves := generateCurves(rng, opts.from, opts.to, opts.step)
	samples := buildSamples(primary.ID, curves, time.Now().UTC())
	if err := stores.Samples.InsertBatch(ctx, samples); err != nil {
		return fmt.Errorf("insert samples: %w", err)
	}
	logger.WithFields(logrus.Fields{"well": primary.Name, "samples": len(samples)}).Info("synthetic curves stored")

	zones := demoZones(primary.ID, time.Now().UTC())
	for i := range zones {
		if err := stores.Zones.Create(ctx, &zones[i]); err != nil {
			return fmt.Errorf("create zone %.0f-%.0f: %w", zones[i].DepthFrom, zones[i].DepthTo, err)
		}
	}
	logger.WithField("zones", len(zones)).Info("interpreted zones stored")
	return nil
}

func demoUser(ctx context.Context, opts options, stores *app.Stores, services *app.Services) (*accounts.User, error) {
	user, err := services.Accounts.Register(ctx, accountsapp.RegisterInput{
		Username: opts.username,
		Email:    opts.email,
		Password: opts.password,
		Role:     "engineer",
	})
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, accounts.ErrDuplicateUser) {
		return nil, fmt.Errorf("register demo user: %w", err)
	}
	return stores.Users.FindByLogin(ctx, opts.username)
}

func clearWells(ctx context.Context, svc *wellsapp.Service, ownerID string) error {
	for {
		page, err := svc.List(ctx, wellsapp.ListQuery{OwnerID: ownerID, PerPage: wellsapp.MaxPerPage})
		if err != nil {
			return fmt.Errorf("list demo wells: %w", err)
		}
		if len(page.Wells) == 0 {
			return nil
		}
		for _, w := range page.Wells {
			if err := svc.Delete(ctx, w.ID); err != nil {
				return fmt.Errorf("delete well %s: %w", w.Name, err)
			}
		}
	}
}

func buildSamples(wellID string, curves syntheticCurves, now time.Time) []logs.Sample {
	var out []logs.Sample
	for _, info := range logs.Catalog() {
		values, ok := curves.Values[info.Type]
		if !ok {
			continue
		}
		for i, v := range values {
			out = append(out, logs.Sample{
				ID:        uuid.NewString(),
				WellID:    wellID,
				Curve:     info.Type,
				Depth:     curves.Depths[i],
				Value:     v,
				Unit:      info.Unit,
				Quality:   logs.QualityGood,
				CreatedAt: now,
			})
		}
	}
	return out
}

type zoneSeed struct {
	from, to           float64
	vsh, phi, phiE, sw float64
	zoneType           petrophysics.ZoneType
	lithology          string
}

var interpretedZones = []zoneSeed{
	{2800, 2850, 0.75, 0.08, 0.02, 1.0, petrophysics.ZoneShale, "shale"},
	{2850, 2920, 0.12, 0.18, 0.16, 0.35, petrophysics.ZoneReservoir, "sandstone"},
	{2920, 2960, 0.65, 0.10, 0.04, 0.90, petrophysics.ZoneShale, "shale"},
	{2960, 3050, 0.08, 0.22, 0.20, 0.28, petrophysics.ZoneReservoir, "sandstone"},
	{3050, 3120, 0.15, 0.19, 0.16, 0.85, petrophysics.ZoneWaterBearing, "sandstone"},
	{3120, 3200, 0.80, 0.06, 0.01, 1.0, petrophysics.ZoneShale, "shale"},
}

func demoZones(wellID string, now time.Time) []petrophysics.Zone {
	out := make([]petrophysics.Zone, 0, len(interpretedZones))
	for _, s := range interpretedZones {
		z := petrophysics.Zone{
			ID:                uuid.NewString(),
			WellID:            wellID,
			DepthFrom:         s.from,
			DepthTo:           s.to,
			Vshale:            petrophysics.Value(s.vsh),
			Porosity:          petrophysics.Value(s.phi),
			PorosityEffective: petrophysics.Value(s.phiE),
			SaturationWater:   petrophysics.Value(s.sw),
			Lithology:         s.lithology,
			ZoneType:          s.zoneType,
			Provenance:        petrophysics.ProvenanceSeed,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		z.Normalize()
		out = append(out, z)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
