package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	petrophysics "well-analysis/internal/petrophysics/domain"
)

const defaultZonesTable = "petrophysics_zones"

const zoneColumns = `id, well_id, depth_from, depth_to, porosity, porosity_effective, permeability,
	saturation_water, saturation_oil, saturation_gas, vshale, lithology, zone_type, notes,
	calculated_by, created_at, updated_at`

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ZoneRepository persists zones in Postgres.
type ZoneRepository struct {
	db    DBTX
	table string
}

// ZoneOption configures the repository.
type ZoneOption func(*ZoneRepository)

// WithZoneTable overrides the default table name.
func WithZoneTable(table string) ZoneOption {
	return func(repo *ZoneRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewZoneRepository constructs a repository. db may be a transaction.
func NewZoneRepository(db DBTX, opts ...ZoneOption) *ZoneRepository {
	repo := &ZoneRepository{db: db, table: defaultZonesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Create inserts a zone.
func (r *ZoneRepository) Create(ctx context.Context, zone *petrophysics.Zone) error {
	if r == nil || r.db == nil {
		return errors.New("zone repo: nil db")
	}
	if zone == nil {
		return errors.New("zone repo: nil zone")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`, r.table, zoneColumns)
	_, err := r.db.ExecContext(ctx, query,
		zone.ID, zone.WellID, zone.DepthFrom, zone.DepthTo,
		zone.Porosity, zone.PorosityEffective, zone.Permeability,
		zone.SaturationWater, zone.SaturationOil, zone.SaturationGas, zone.Vshale,
		zone.Lithology, string(zone.ZoneType), zone.Notes, string(zone.Provenance),
		zone.CreatedAt, zone.UpdatedAt,
	)
	return err
}

// Update overwrites a zone.
func (r *ZoneRepository) Update(ctx context.Context, zone *petrophysics.Zone) error {
	if r == nil || r.db == nil {
		return errors.New("zone repo: nil db")
	}
	if zone == nil {
		return errors.New("zone repo: nil zone")
	}
	query := fmt.Sprintf(`
UPDATE %s
SET depth_from = $2, depth_to = $3, porosity = $4, porosity_effective = $5, permeability = $6,
	saturation_water = $7, saturation_oil = $8, saturation_gas = $9, vshale = $10,
	lithology = $11, zone_type = $12, notes = $13, calculated_by = $14, updated_at = $15
WHERE id = $1`, r.table)
	res, err := r.db.ExecContext(ctx, query,
		zone.ID, zone.DepthFrom, zone.DepthTo,
		zone.Porosity, zone.PorosityEffective, zone.Permeability,
		zone.SaturationWater, zone.SaturationOil, zone.SaturationGas, zone.Vshale,
		zone.Lithology, string(zone.ZoneType), zone.Notes, string(zone.Provenance),
		zone.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return petrophysics.ErrZoneNotFound
	}
	return nil
}

// Get loads a zone by id.
func (r *ZoneRepository) Get(ctx context.Context, id string) (*petrophysics.Zone, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("zone repo: nil db")
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 LIMIT 1", zoneColumns, r.table)
	zone, err := scanZone(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, petrophysics.ErrZoneNotFound
		}
		return nil, err
	}
	return &zone, nil
}

// ListByWell returns the zones of a well ordered by depth.
func (r *ZoneRepository) ListByWell(ctx context.Context, wellID string) ([]petrophysics.Zone, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("zone repo: nil db")
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE well_id = $1 ORDER BY depth_from ASC, created_at ASC, id ASC`, zoneColumns, r.table)
	rows, err := r.db.QueryContext(ctx, query, wellID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]petrophysics.Zone, 0)
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, zone)
	}
	return result, rows.Err()
}

// CountByWell counts the zones of a well.
func (r *ZoneRepository) CountByWell(ctx context.Context, wellID string) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("zone repo: nil db")
	}
	var count int
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE well_id = $1", r.table), wellID).Scan(&count)
	return count, err
}

// Delete removes one zone.
func (r *ZoneRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("zone repo: nil db")
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return petrophysics.ErrZoneNotFound
	}
	return nil
}

// DeleteByWell removes every zone of a well.
func (r *ZoneRepository) DeleteByWell(ctx context.Context, wellID string) error {
	if r == nil || r.db == nil {
		return errors.New("zone repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE well_id = $1", r.table), wellID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanZone(row rowScanner) (petrophysics.Zone, error) {
	var z petrophysics.Zone
	var phi, phiE, perm, sw, so, sg, vsh sql.NullFloat64
	var lithology, notes sql.NullString
	var zoneType, provenance string
	if err := row.Scan(
		&z.ID, &z.WellID, &z.DepthFrom, &z.DepthTo,
		&phi, &phiE, &perm, &sw, &so, &sg, &vsh,
		&lithology, &zoneType, &notes, &provenance,
		&z.CreatedAt, &z.UpdatedAt,
	); err != nil {
		return petrophysics.Zone{}, err
	}
	z.Porosity = nullFloat(phi)
	z.PorosityEffective = nullFloat(phiE)
	z.Permeability = nullFloat(perm)
	z.SaturationWater = nullFloat(sw)
	z.SaturationOil = nullFloat(so)
	z.SaturationGas = nullFloat(sg)
	z.Vshale = nullFloat(vsh)
	z.Lithology = lithology.String
	z.Notes = notes.String
	z.ZoneType = petrophysics.ZoneType(zoneType)
	z.Provenance = petrophysics.Provenance(provenance)
	z.CreatedAt = z.CreatedAt.UTC()
	z.UpdatedAt = z.UpdatedAt.UTC()
	return z, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
