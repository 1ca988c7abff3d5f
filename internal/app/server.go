package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	accountsapp "well-analysis/internal/accounts/application"
	accountshttp "well-analysis/internal/accounts/interfaces/http"
	apihttp "well-analysis/internal/api/http"
	"well-analysis/internal/auth"
	"well-analysis/internal/config"
	logsapp "well-analysis/internal/logs/application"
	logshttp "well-analysis/internal/logs/interfaces/http"
	petroapp "well-analysis/internal/petrophysics/application"
	petrohttp "well-analysis/internal/petrophysics/interfaces/http"
	reportapp "well-analysis/internal/reporting/application"
	reporthttp "well-analysis/internal/reporting/interfaces/http"
	wellsapp "well-analysis/internal/wells/application"
	wellshttp "well-analysis/internal/wells/interfaces/http"
)

// Services holds the application services built on one set of stores.
type Services struct {
	Accounts *accountsapp.Service
	Wells    *wellsapp.Service
	Logs     *logsapp.Service
	Analysis *petroapp.Service
	Reports  *reportapp.Service
}

// NewServices wires the application layer.
func NewServices(cfg config.Config, stores *Stores, logger logrus.FieldLogger) (*Services, error) {
	if stores == nil {
		return nil, errors.New("app: nil stores")
	}
	accountsSvc, err := accountsapp.NewService(stores.Users, []byte(cfg.JWTSecret),
		accountsapp.WithTokenTTL(cfg.TokenTTL),
		accountsapp.WithAdminRegistration(cfg.AllowAdminSignup),
		accountsapp.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	wellsSvc, err := wellsapp.NewService(stores.Wells, stores.Samples, stores.Zones)
	if err != nil {
		return nil, err
	}
	logsSvc, err := logsapp.NewService(stores.Samples)
	if err != nil {
		return nil, err
	}
	analysisSvc, err := petroapp.NewService(logsSvc, stores.Zones, stores.Wells,
		petroapp.WithCalibration(cfg.Calibration),
		petroapp.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	reportsSvc, err := reportapp.NewService(stores.Wells, stores.Zones, stores.Samples)
	if err != nil {
		return nil, err
	}
	return &Services{
		Accounts: accountsSvc,
		Wells:    wellsSvc,
		Logs:     logsSvc,
		Analysis: analysisSvc,
		Reports:  reportsSvc,
	}, nil
}

// NewRouter mounts every API surface behind auth, CORS and request logging.
func NewRouter(cfg config.Config, stores *Stores, services *Services, logger logrus.FieldLogger) (http.Handler, error) {
	checker, err := auth.NewWellChecker(stores.Wells)
	if err != nil {
		return nil, err
	}
	accountsHandler, err := accountshttp.NewHandler(services.Accounts, stores.Audit, logger)
	if err != nil {
		return nil, err
	}
	wellsHandler, err := wellshttp.NewHandler(services.Wells, checker, stores.Audit, logger)
	if err != nil {
		return nil, err
	}
	logsHandler, err := logshttp.NewHandler(services.Logs, checker, stores.Audit, logger)
	if err != nil {
		return nil, err
	}
	analysisHandler, err := petrohttp.NewHandler(services.Analysis, services.Logs, checker, stores.Audit, logger)
	if err != nil {
		return nil, err
	}
	reportsHandler, err := reporthttp.NewHandler(services.Reports, checker, stores.Audit, logger)
	if err != nil {
		return nil, err
	}

	health := apihttp.NewHealthHandler(stores.Pinger)
	authenticator := auth.NewAuthenticator([]byte(cfg.JWTSecret), auth.NewDefaultPolicy(auth.PublicPaths, nil),
		auth.WithIdentityResolver(services.Accounts),
		auth.WithAuthLogger(logger),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(apihttp.RequestLogger(logger))
	r.Use(apihttp.CORS(cfg.CORSOrigins))
	r.Use(authenticator.Middleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/healthz", health)
	r.Handle("/api/health", health)
	r.Mount("/api/auth", accountsHandler.Routes())
	r.Mount("/api/wells", wellsHandler.Routes())
	r.Mount("/api/logs", logsHandler.Routes())
	r.Mount("/api/analysis", analysisHandler.Routes())
	r.Mount("/api/reports", reportsHandler.Routes())
	return r, nil
}
