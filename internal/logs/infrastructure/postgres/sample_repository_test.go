package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	logs "well-analysis/internal/logs/domain"
)

func TestInsertBatchCommitsAllRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := []logs.Sample{
		{ID: "s1", WellID: "w1", Curve: logs.CurveGammaRay, Depth: 1000, Value: 40, Unit: "API", Quality: logs.QualityGood, CreatedAt: now},
		{ID: "s2", WellID: "w1", Curve: logs.CurveGammaRay, Depth: 1001, Value: 45, Unit: "API", Quality: logs.QualityGood, CreatedAt: now},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO well_log_samples").
		WithArgs("s1", "w1", "GR", 1000.0, 40.0, "API", "good", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO well_log_samples").
		WithArgs("s2", "w1", "GR", 1001.0, 45.0, "API", "good", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewSampleRepository(db)
	require.NoError(t, repo.InsertBatch(context.Background(), samples))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBatchRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	samples := []logs.Sample{
		{ID: "s1", WellID: "w1", Curve: logs.CurveGammaRay, Depth: 1000, Value: 40},
		{ID: "s2", WellID: "w1", Curve: logs.CurveGammaRay, Depth: 1001, Value: 45},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO well_log_samples").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO well_log_samples").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	repo := NewSampleRepository(db)
	require.Error(t, repo.InsertBatch(context.Background(), samples))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBatchRejectsNegativeDepthBeforeWriting(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSampleRepository(db)
	err = repo.InsertBatch(context.Background(), []logs.Sample{{ID: "s1", WellID: "w1", Depth: -1}})
	require.ErrorIs(t, err, logs.ErrNegativeDepth)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBuildsFilteredQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	from, to := 1000.0, 1010.0
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "well_id", "curve", "depth", "value", "unit", "quality", "created_at"}).
		AddRow("s1", "w1", "GR", 1000.0, 40.0, "API", "good", now).
		AddRow("s2", "w1", "GR", 1005.0, 60.0, "API", "suspect", now)
	mock.ExpectQuery(`WHERE well_id = \$1 AND curve = \$2 AND depth >= \$3 AND depth <= \$4`).
		WithArgs("w1", "GR", from, to).
		WillReturnRows(rows)

	repo := NewSampleRepository(db)
	got, err := repo.List(context.Background(), logs.SampleFilter{
		WellID:    "w1",
		Curve:     logs.CurveGammaRay,
		DepthFrom: &from,
		DepthTo:   &to,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, logs.CurveGammaRay, got[0].Curve)
	require.Equal(t, logs.QualitySuspect, got[1].Quality)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMapsNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, well_id").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewSampleRepository(db)
	_, err = repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, logs.ErrSampleNotFound)
}

func TestDeleteMissingSample(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM well_log_samples WHERE id").WithArgs("s9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewSampleRepository(db)
	require.ErrorIs(t, repo.Delete(context.Background(), "s9"), logs.ErrSampleNotFound)
}

func TestStatisticsScansAggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"curve", "count", "min_depth", "max_depth", "min_value", "max_value", "avg"}).
		AddRow("DENS", 3, 1000.0, 1002.0, 2.3, 2.5, 2.4).
		AddRow("GR", 3, 1000.0, 1002.0, 30.0, 90.0, 60.0)
	mock.ExpectQuery("GROUP BY curve").WithArgs("w1").WillReturnRows(rows)

	repo := NewSampleRepository(db)
	stats, err := repo.Statistics(context.Background(), "w1")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, logs.CurveDensity, stats[0].Curve)
	require.Equal(t, 3, stats[1].Count)
	require.InDelta(t, 60.0, stats[1].MeanValue, 1e-9)
}
