package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	logsrepo "well-analysis/internal/logs/infrastructure/postgres"
	zonesrepo "well-analysis/internal/petrophysics/infrastructure/postgres"
	wells "well-analysis/internal/wells/domain"
)

// WellRepository persists wells in Postgres.
type WellRepository struct {
	db *sql.DB
}

// NewWellRepository constructs a repository.
func NewWellRepository(db *sql.DB) *WellRepository {
	return &WellRepository{db: db}
}

// Create inserts a well.
func (r *WellRepository) Create(ctx context.Context, well wells.Well) error {
	if r == nil || r.db == nil {
		return errors.New("well repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO wells (id, owner_id, name, field_name, location, latitude, longitude, depth_total, status, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		well.ID, well.OwnerID, well.Name, well.FieldName, well.Location,
		well.Latitude, well.Longitude, well.DepthTotal, string(well.Status), well.Description,
		well.CreatedAt, well.UpdatedAt,
	)
	return err
}

// Update overwrites the mutable fields of a well.
func (r *WellRepository) Update(ctx context.Context, well wells.Well) error {
	if r == nil || r.db == nil {
		return errors.New("well repo: nil db")
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE wells
SET name = $2, field_name = $3, location = $4, latitude = $5, longitude = $6,
	depth_total = $7, status = $8, description = $9, updated_at = $10
WHERE id = $1`,
		well.ID, well.Name, well.FieldName, well.Location,
		well.Latitude, well.Longitude, well.DepthTotal, string(well.Status), well.Description,
		well.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return wells.ErrNotFound
	}
	return nil
}

// Get loads a well by id.
func (r *WellRepository) Get(ctx context.Context, id string) (*wells.Well, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("well repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, name, field_name, location, latitude, longitude, depth_total, status, description, created_at, updated_at
FROM wells
WHERE id = $1
LIMIT 1`, id)
	well, err := scanWell(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wells.ErrNotFound
		}
		return nil, err
	}
	return &well, nil
}

// List returns one page of an owner's wells, newest first.
func (r *WellRepository) List(ctx context.Context, filter wells.ListFilter) ([]wells.Well, int, error) {
	if r == nil || r.db == nil {
		return nil, 0, errors.New("well repo: nil db")
	}
	conditions := []string{"owner_id = $1"}
	args := []any{filter.OwnerID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM wells WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	pageArgs := append(append([]any{}, args...), limit, filter.Offset)
	query := fmt.Sprintf(`
SELECT id, owner_id, name, field_name, location, latitude, longitude, depth_total, status, description, created_at, updated_at
FROM wells
WHERE %s
ORDER BY created_at DESC, id ASC
LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]wells.Well, 0)
	for rows.Next() {
		well, err := scanWell(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, well)
	}
	return result, total, rows.Err()
}

// Delete removes the well's samples, zones and row in one transaction.
func (r *WellRepository) Delete(ctx context.Context, id string) (err error) {
	if r == nil || r.db == nil {
		return errors.New("well repo: nil db")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = logsrepo.NewSampleRepository(tx).DeleteByWell(ctx, id); err != nil {
		return err
	}
	if err = zonesrepo.NewZoneRepository(tx).DeleteByWell(ctx, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM wells WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, rerr := res.RowsAffected(); rerr == nil && n == 0 {
		err = wells.ErrNotFound
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWell(row rowScanner) (wells.Well, error) {
	var w wells.Well
	var field, location, description sql.NullString
	var lat, lon, depth sql.NullFloat64
	var status string
	if err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &field, &location, &lat, &lon, &depth, &status, &description, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return wells.Well{}, err
	}
	w.FieldName = field.String
	w.Location = location.String
	w.Description = description.String
	w.Status = wells.Status(status)
	w.Latitude = nullFloat(lat)
	w.Longitude = nullFloat(lon)
	w.DepthTotal = nullFloat(depth)
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return w, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
