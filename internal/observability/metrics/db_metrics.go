package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func registerDBMetrics(db *sql.DB, logger logrus.FieldLogger) {
	gauges := []struct {
		name  string
		help  string
		query string
	}{
		{"wells_count", "Stored wells", "SELECT COUNT(*) FROM wells"},
		{"log_samples_count", "Stored log samples", "SELECT COUNT(*) FROM well_log_samples"},
		{"zones_count", "Stored petrophysical zones", "SELECT COUNT(*) FROM petrophysics_zones"},
	}
	for _, g := range gauges {
		query := g.query
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + g.name,
				Help: g.help,
			},
			func() float64 {
				return queryCount(db, logger, query)
			},
		))
	}
}

func queryCount(db *sql.DB, logger logrus.FieldLogger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.WithError(err).Warn("metrics query failed")
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
