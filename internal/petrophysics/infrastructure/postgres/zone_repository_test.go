package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	petrophysics "well-analysis/internal/petrophysics/domain"
)

var zoneRowColumns = []string{
	"id", "well_id", "depth_from", "depth_to", "porosity", "porosity_effective", "permeability",
	"saturation_water", "saturation_oil", "saturation_gas", "vshale", "lithology", "zone_type", "notes",
	"calculated_by", "created_at", "updated_at",
}

func TestCreateZone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	phi := 0.2
	zone := &petrophysics.Zone{
		ID: "z1", WellID: "w1", DepthFrom: 2850, DepthTo: 2920,
		PorosityEffective: &phi, ZoneType: petrophysics.ZoneReservoir,
		Provenance: petrophysics.ProvenanceAuto, CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectExec("INSERT INTO petrophysics_zones").
		WithArgs("z1", "w1", 2850.0, 2920.0, nil, 0.2, nil, nil, nil, nil, nil, "", "reservoir", "", "auto", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, NewZoneRepository(db).Create(context.Background(), zone))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByWellScansNullable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("ORDER BY depth_from ASC").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows(zoneRowColumns).
			AddRow("z1", "w1", 2800.0, 2850.0, nil, nil, nil, nil, nil, nil, 0.8, "shale", "shale", nil, "auto", now, now).
			AddRow("z2", "w1", 2850.0, 2920.0, 0.22, 0.2, nil, 0.3, 0.7, nil, 0.1, "sandstone", "reservoir", "good", "manual", now, now))

	zones, err := NewZoneRepository(db).ListByWell(context.Background(), "w1")
	require.NoError(t, err)
	require.Len(t, zones, 2)
	require.Nil(t, zones[0].PorosityEffective)
	require.Equal(t, petrophysics.ZoneShale, zones[0].ZoneType)
	require.NotNil(t, zones[1].SaturationOil)
	require.Equal(t, 0.7, *zones[1].SaturationOil)
	require.Equal(t, petrophysics.ProvenanceManual, zones[1].Provenance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetZoneNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM petrophysics_zones").WithArgs("z9").WillReturnError(sql.ErrNoRows)
	_, err = NewZoneRepository(db).Get(context.Background(), "z9")
	require.ErrorIs(t, err, petrophysics.ErrZoneNotFound)
}

func TestDeleteZoneNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM custom_zones").WithArgs("z9").WillReturnResult(sqlmock.NewResult(0, 0))
	err = NewZoneRepository(db, WithZoneTable("custom_zones")).Delete(context.Background(), "z9")
	require.ErrorIs(t, err, petrophysics.ErrZoneNotFound)
}

func TestCountByWell(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").WithArgs("w1").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	count, err := NewZoneRepository(db).CountByWell(context.Background(), "w1")
	require.NoError(t, err)
	require.Equal(t, 4, count)
}
