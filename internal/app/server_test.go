package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"well-analysis/internal/config"
)

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (c *client) do(method, path, contentType, body string) (*http.Response, []byte) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.server.URL+path, strings.NewReader(body))
	require.NoError(c.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func newTestServer(t *testing.T) *client {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.Default()
	cfg.Storage = config.StorageMemory
	cfg.JWTSecret = "integration-secret"

	stores := NewMemoryStores(logger, 100)
	services, err := NewServices(cfg, stores, logger)
	require.NoError(t, err)
	router, err := NewRouter(cfg, stores, services, logger)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &client{t: t, server: server}
}

func (c *client) login(username, email string) {
	c.t.Helper()
	c.token = ""
	resp, body := c.do(http.MethodPost, "/api/auth/register", "application/json",
		`{"username":"`+username+`","email":"`+email+`","password":"demo123","role":"engineer"}`)
	require.Equal(c.t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = c.do(http.MethodPost, "/api/auth/login", "application/json", `{"username":"`+username+`","password":"demo123"}`)
	require.Equal(c.t, http.StatusOK, resp.StatusCode, string(body))
	var session struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(c.t, json.Unmarshal(body, &session))
	c.token = session.AccessToken
}

const sandShaleCSV = `depth,GR,DENS,RESIS,quality
1000,20,2.3,20,good
1001,20,2.3,20,good
1002,20,2.3,20,good
1050,150,2.5,2,good
1051,150,2.5,2,suspect
`

func TestWellAnalysisWorkflow(t *testing.T) {
	c := newTestServer(t)

	resp, _ := c.do(http.MethodGet, "/api/wells", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	c.login("demo", "demo@example.com")

	resp, body := c.do(http.MethodPost, "/api/wells", "application/json", `{"name":"HMD-101","field_name":"Hassi Messaoud"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var well struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &well))

	resp, body = c.do(http.MethodPost, "/api/logs/well/"+well.ID+"/import", "text/csv", sandShaleCSV)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"imported":15`)

	resp, body = c.do(http.MethodGet, "/api/logs/well/"+well.ID+"?log_type=GR&depth_from=1000&depth_to=1002", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"count":3`)

	resp, body = c.do(http.MethodPost, "/api/analysis/well/"+well.ID+"/calculate", "application/json", `{"depth_from":1000,"depth_to":1002}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"is_reservoir":true`)

	resp, body = c.do(http.MethodPost, "/api/analysis/well/"+well.ID+"/calculate", "application/json", `{"depth_from":1050,"depth_to":1051,"calibration":{"gr_shale":160}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = c.do(http.MethodPost, "/api/analysis/well/"+well.ID+"/calculate", "application/json", `{"depth_from":1100,"depth_to":1200}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = c.do(http.MethodPost, "/api/analysis/well/"+well.ID+"/calculate", "application/json", `{"depth_from":"deep","depth_to":1200}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = c.do(http.MethodGet, "/api/analysis/well/"+well.ID+"/zones", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var zones struct {
		Zones []struct {
			DepthFrom float64 `json:"depth_from"`
		} `json:"zones"`
	}
	require.NoError(t, json.Unmarshal(body, &zones))
	require.Len(t, zones.Zones, 2)
	assert.Equal(t, 1000.0, zones.Zones[0].DepthFrom)

	resp, body = c.do(http.MethodGet, "/api/reports/well/"+well.ID+"/summary", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"reservoir_zones":1`)

	resp, _ = c.do(http.MethodGet, "/api/reports/well/"+well.ID+"?format=pdf", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp, _ = c.do(http.MethodGet, "/api/logs/well/"+well.ID+"/plot?log_type=GR", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	// A second user sees none of it.
	c.login("other", "other@example.com")
	resp, _ = c.do(http.MethodGet, "/api/wells/"+well.ID, "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, "/api/reports/well/"+well.ID, "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, "/api/auth/users", "", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMetricsEndpointIsPublic(t *testing.T) {
	c := newTestServer(t)
	resp, body := c.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestOpenStoresRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage = "sqlite"
	_, err := OpenStores(t.Context(), cfg, logrus.New())
	assert.Error(t, err)
}
