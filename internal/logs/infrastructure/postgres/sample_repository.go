package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	logs "well-analysis/internal/logs/domain"
)

const defaultSamplesTable = "well_log_samples"

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// SampleRepository is a Postgres log store.
type SampleRepository struct {
	db    DBTX
	table string
}

// SampleOption configures the repository.
type SampleOption func(*SampleRepository)

// WithSampleTable overrides the default table name.
func WithSampleTable(table string) SampleOption {
	return func(repo *SampleRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewSampleRepository constructs a repository. db may be a transaction.
func NewSampleRepository(db DBTX, opts ...SampleOption) *SampleRepository {
	repo := &SampleRepository{db: db, table: defaultSamplesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// InsertBatch inserts all samples in one transaction.
func (r *SampleRepository) InsertBatch(ctx context.Context, samples []logs.Sample) error {
	if r == nil || r.db == nil {
		return errors.New("sample repo: nil db")
	}
	if len(samples) == 0 {
		return nil
	}
	for _, s := range samples {
		if s.Depth < 0 {
			return logs.ErrNegativeDepth
		}
	}

	exec := r.db
	var tx *sql.Tx
	if beginner, ok := r.db.(txBeginner); ok {
		var err error
		tx, err = beginner.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		exec = tx
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, well_id, curve, depth, value, unit, quality, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, r.table)
	for _, s := range samples {
		createdAt := s.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := exec.ExecContext(ctx, query,
			s.ID, s.WellID, string(s.Curve), s.Depth, s.Value, s.Unit, string(s.Quality), createdAt,
		); err != nil {
			if tx != nil {
				_ = tx.Rollback()
			}
			return err
		}
	}
	if tx != nil {
		return tx.Commit()
	}
	return nil
}

// List returns matching samples ordered by depth, then insertion order.
func (r *SampleRepository) List(ctx context.Context, filter logs.SampleFilter) ([]logs.Sample, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sample repo: nil db")
	}
	if filter.WellID == "" {
		return nil, errors.New("sample repo: empty well id")
	}

	conditions := []string{"well_id = $1"}
	args := []any{filter.WellID}
	if filter.Curve != "" {
		args = append(args, string(filter.Curve))
		conditions = append(conditions, fmt.Sprintf("curve = $%d", len(args)))
	}
	if filter.DepthFrom != nil {
		args = append(args, *filter.DepthFrom)
		conditions = append(conditions, fmt.Sprintf("depth >= $%d", len(args)))
	}
	if filter.DepthTo != nil {
		args = append(args, *filter.DepthTo)
		conditions = append(conditions, fmt.Sprintf("depth <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
SELECT id, well_id, curve, depth, value, unit, quality, created_at
FROM %s
WHERE %s
ORDER BY depth ASC, seq ASC`, r.table, strings.Join(conditions, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]logs.Sample, 0)
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Get loads a sample by id.
func (r *SampleRepository) Get(ctx context.Context, id string) (*logs.Sample, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sample repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, well_id, curve, depth, value, unit, quality, created_at
FROM %s
WHERE id = $1
LIMIT 1`, r.table)
	s, err := scanSample(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, logs.ErrSampleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Delete removes one sample.
func (r *SampleRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("sample repo: nil db")
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return logs.ErrSampleNotFound
	}
	return nil
}

// DeleteByWell removes every sample of a well.
func (r *SampleRepository) DeleteByWell(ctx context.Context, wellID string) error {
	if r == nil || r.db == nil {
		return errors.New("sample repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE well_id = $1", r.table), wellID)
	return err
}

// Statistics aggregates per-curve statistics in the database.
func (r *SampleRepository) Statistics(ctx context.Context, wellID string) ([]logs.CurveStatistics, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sample repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT curve, COUNT(*), MIN(depth), MAX(depth), MIN(value), MAX(value), AVG(value)
FROM %s
WHERE well_id = $1
GROUP BY curve
ORDER BY curve ASC`, r.table)
	rows, err := r.db.QueryContext(ctx, query, wellID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]logs.CurveStatistics, 0)
	for rows.Next() {
		var stat logs.CurveStatistics
		var curve string
		if err := rows.Scan(&curve, &stat.Count, &stat.MinDepth, &stat.MaxDepth, &stat.MinValue, &stat.MaxValue, &stat.MeanValue); err != nil {
			return nil, err
		}
		stat.Curve = logs.CurveType(curve)
		result = append(result, stat)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (logs.Sample, error) {
	var s logs.Sample
	var curve, quality string
	var unit sql.NullString
	if err := row.Scan(&s.ID, &s.WellID, &curve, &s.Depth, &s.Value, &unit, &quality, &s.CreatedAt); err != nil {
		return logs.Sample{}, err
	}
	s.Curve = logs.CurveType(curve)
	s.Quality = logs.Quality(quality)
	s.Unit = unit.String
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}
