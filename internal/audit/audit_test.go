package audit

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"well-analysis/internal/auth"
)

func TestFromRequestUsesIdentity(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/wells", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	req.Header.Set("User-Agent", "curl/8")
	req = req.WithContext(auth.WithIdentity(req.Context(), "u1", "demo", auth.RoleEngineer))

	entry := FromRequest(req, "well.create", "well", "w1", "w1", map[string]any{"name": "HMD-101"})
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, "engineer", entry.Role)
	assert.Equal(t, "10.0.0.1", entry.IP)
	assert.Equal(t, "curl/8", entry.UserAgent)
	assert.JSONEq(t, `{"name":"HMD-101"}`, string(entry.Metadata))
}

func TestLogLoggerRetainsLatest(t *testing.T) {
	l := NewLogLogger(nil, 2)
	for _, action := range []string{"a", "b", "c"} {
		require.NoError(t, l.Log(context.Background(), Entry{Action: action}))
	}
	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Action)
	assert.NotEmpty(t, entries[1].ID)
}

func TestRepositoryLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))
	repo := NewRepository(db)
	require.NoError(t, repo.Log(context.Background(), Entry{UserID: "u1", Action: "zone.compute"}))
	require.NoError(t, mock.ExpectationsWereMet())
}
