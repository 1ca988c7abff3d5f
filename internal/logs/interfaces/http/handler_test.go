package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"well-analysis/internal/audit"
	"well-analysis/internal/auth"
	logsapp "well-analysis/internal/logs/application"
	logs "well-analysis/internal/logs/domain"
	logsmemory "well-analysis/internal/logs/infrastructure/memory"
	zonesmemory "well-analysis/internal/petrophysics/infrastructure/memory"
	wells "well-analysis/internal/wells/domain"
	wellsmemory "well-analysis/internal/wells/infrastructure/memory"
)

const importCSV = "depth,GR,RESIS,quality\n1000,35,40,good\n1000.5,NaN,42,\n1001,110,3,suspect\n"

type fixture struct {
	handler *Handler
	samples *logsmemory.SampleRepository
	audit   *audit.LogLogger
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	samples := logsmemory.NewSampleRepository()
	repo := wellsmemory.NewWellRepository(samples, zonesmemory.NewZoneRepository())
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, wells.Well{ID: "w1", OwnerID: "u1", Name: "HMD-101", Status: wells.StatusActive}))
	require.NoError(t, repo.Create(ctx, wells.Well{ID: "w2", OwnerID: "u2", Name: "ORD-205", Status: wells.StatusActive}))

	svc, err := logsapp.NewService(samples)
	require.NoError(t, err)
	checker, err := auth.NewWellChecker(repo)
	require.NoError(t, err)
	auditLog := audit.NewLogLogger(nil, 10)
	h, err := NewHandler(svc, checker, auditLog, nil)
	require.NoError(t, err)
	return fixture{handler: h, samples: samples, audit: auditLog}
}

func (f fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	req = req.WithContext(auth.WithIdentity(req.Context(), "u1", "demo", auth.RoleEngineer))
	rec := httptest.NewRecorder()
	f.handler.Routes().ServeHTTP(rec, req)
	return rec
}

func (f fixture) do(method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return f.serve(req)
}

func TestNewHandlerRejectsNilDeps(t *testing.T) {
	_, err := NewHandler(nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestImportListAndTypes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/well/w1/import", "text/csv", importCSV)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var result logsapp.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 5, result.Imported)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 2, result.Curves[logs.CurveGammaRay])

	rec = f.do(http.MethodGet, "/well/w1/?log_type=GR&depth_from=1000.5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count int           `json:"count"`
		Logs  []logs.Sample `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, 110.0, list.Logs[0].Value)
	assert.Equal(t, logs.QualitySuspect, list.Logs[0].Quality)

	rec = f.do(http.MethodGet, "/well/w1/types", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"GR"`)
	assert.Contains(t, rec.Body.String(), `"type":"RESIS"`)
	assert.NotContains(t, rec.Body.String(), `"type":"DENS"`)

	entries := f.audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "logs.import", entries[0].Action)
	assert.Equal(t, "w1", entries[0].WellID)
}

func TestImportMultipart(t *testing.T) {
	f := newFixture(t)

	upload := func(name string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(importCSV))
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/well/w1/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return f.serve(req)
	}

	assert.Equal(t, http.StatusBadRequest, upload("logs.txt").Code)
	rec := upload("LOGS.CSV")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"imported":5`)
}

func TestImportRejectsInvalidCSVAtomically(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/well/w1/import", "text/csv", "depth,GR\n1000,30\n-5,40\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodPost, "/well/w1/import", "text/csv", "GR\n30\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := f.samples.List(context.Background(), logs.SampleFilter{WellID: "w1"})
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, f.audit.Entries())
}

func TestExportGroupsByCurve(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/well/w1/import", "text/csv", importCSV).Code)

	rec := f.do(http.MethodGet, "/well/w1/export", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data map[logs.CurveType]logsapp.CurveExport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, []float64{1000, 1001}, out.Data[logs.CurveGammaRay].Depths)
	assert.Equal(t, []float64{40, 42, 3}, out.Data[logs.CurveResistivity].Values)
	assert.Equal(t, "ohm.m", out.Data[logs.CurveResistivity].Info.Unit)

	rec = f.do(http.MethodGet, "/well/w1/export?log_type=XYZ", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlotRendersPNG(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/well/w1/import", "text/csv", importCSV).Code)

	rec := f.do(http.MethodGet, "/well/w1/plot?log_type=RESIS", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/well/w1/plot", "", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/well/w1/plot?log_type=DENS", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/well/w1/plot?log_type=GR&depth_from=1001&depth_to=1000", "", "").Code)
}

func TestForeignWellIsNotFound(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/well/w2/", "", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/well/w2/import", "text/csv", importCSV).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/well/missing/types", "", "").Code)
}

func TestDeleteSample(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.samples.InsertBatch(ctx, []logs.Sample{
		{ID: "s1", WellID: "w1", Curve: logs.CurveGammaRay, Depth: 1000, Value: 30, Quality: logs.QualityGood},
		{ID: "s2", WellID: "w2", Curve: logs.CurveGammaRay, Depth: 1000, Value: 30, Quality: logs.QualityGood},
	}))

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/s2", "", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/nope", "", "").Code)

	rec := f.do(http.MethodDelete, "/s1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := f.samples.Get(ctx, "s1")
	assert.ErrorIs(t, err, logs.ErrSampleNotFound)
	_, err = f.samples.Get(ctx, "s2")
	assert.NoError(t, err)

	entries := f.audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "logs.delete", entries[0].Action)
}
