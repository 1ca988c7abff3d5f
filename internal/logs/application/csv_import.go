package application

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	logs "well-analysis/internal/logs/domain"
	"well-analysis/internal/observability/metrics"
)

const depthColumn = "depth"

// ImportResult summarises a CSV import.
type ImportResult struct {
	Imported int                    `json:"imported"`
	Rows     int                    `json:"rows"`
	Curves   map[logs.CurveType]int `json:"curves"`
}

// ImportCSV parses a depth-indexed CSV and stores its samples. Columns named
// after catalog curves become samples; other columns are ignored. Empty and
// NaN cells are skipped. Nothing is stored when any row is invalid.
func (s *Service) ImportCSV(ctx context.Context, wellID string, r io.Reader) (*ImportResult, error) {
	samples, rows, err := s.parseCSV(wellID, r)
	if err != nil {
		metrics.ObserveCSVImport(metrics.ResultInvalid, 0)
		return nil, err
	}
	if len(samples) == 0 {
		metrics.ObserveCSVImport(metrics.ResultInvalid, 0)
		return nil, fmt.Errorf("%w: no curve values", logs.ErrInvalidCSV)
	}
	if err := s.repo.InsertBatch(ctx, samples); err != nil {
		metrics.ObserveCSVImport(metrics.ResultError, 0)
		return nil, err
	}
	metrics.ObserveCSVImport(metrics.ResultSuccess, len(samples))

	result := &ImportResult{Imported: len(samples), Rows: rows, Curves: make(map[logs.CurveType]int)}
	for _, sample := range samples {
		result.Curves[sample.Curve]++
	}
	return result, nil
}

func (s *Service) parseCSV(wellID string, r io.Reader) ([]logs.Sample, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("%w: empty file", logs.ErrInvalidCSV)
		}
		return nil, 0, fmt.Errorf("%w: %v", logs.ErrInvalidCSV, err)
	}

	depthIdx, qualityIdx := -1, -1
	type curveColumn struct {
		idx  int
		info logs.CurveInfo
	}
	var curves []curveColumn
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, depthColumn):
			depthIdx = i
		case strings.EqualFold(name, "quality"):
			qualityIdx = i
		default:
			if info, ok := logs.Info(logs.CurveType(strings.ToUpper(name))); ok {
				curves = append(curves, curveColumn{idx: i, info: info})
			}
		}
	}
	if depthIdx < 0 {
		return nil, 0, fmt.Errorf("%w: missing %q column", logs.ErrInvalidCSV, depthColumn)
	}
	if len(curves) == 0 {
		return nil, 0, fmt.Errorf("%w: no known curve columns", logs.ErrInvalidCSV)
	}

	now := s.now()
	var samples []logs.Sample
	rows := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: line %d: %v", logs.ErrInvalidCSV, line, err)
		}
		if depthIdx >= len(record) || strings.TrimSpace(record[depthIdx]) == "" {
			return nil, 0, fmt.Errorf("%w: line %d: missing depth", logs.ErrInvalidCSV, line)
		}
		depth, err := strconv.ParseFloat(strings.TrimSpace(record[depthIdx]), 64)
		if err != nil || math.IsNaN(depth) || math.IsInf(depth, 0) {
			return nil, 0, fmt.Errorf("%w: line %d: invalid depth", logs.ErrInvalidCSV, line)
		}
		if depth < 0 {
			return nil, 0, fmt.Errorf("line %d: %w", line, logs.ErrNegativeDepth)
		}

		quality := logs.QualityGood
		if qualityIdx >= 0 && qualityIdx < len(record) {
			q, ok := logs.ParseQuality(strings.ToLower(strings.TrimSpace(record[qualityIdx])))
			if !ok {
				return nil, 0, fmt.Errorf("%w: line %d: invalid quality", logs.ErrInvalidCSV, line)
			}
			quality = q
		}

		rows++
		for _, col := range curves {
			if col.idx >= len(record) {
				continue
			}
			info := col.info
			cell := strings.TrimSpace(record[col.idx])
			if cell == "" || strings.EqualFold(cell, "nan") {
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsInf(value, 0) {
				return nil, 0, fmt.Errorf("%w: line %d: invalid %s value", logs.ErrInvalidCSV, line, info.Type)
			}
			samples = append(samples, logs.Sample{
				ID:        s.newID(),
				WellID:    wellID,
				Curve:     info.Type,
				Depth:     depth,
				Value:     value,
				Unit:      info.Unit,
				Quality:   quality,
				CreatedAt: now,
			})
		}
	}
	logs.SortByDepth(samples)
	return samples, rows, nil
}
