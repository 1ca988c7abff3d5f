package audit

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"well-analysis/internal/auth"
)

// Entry represents an audit log entry.
type Entry struct {
	ID            string
	UserID        string
	Username      string
	Role          string
	Action        string
	ResourceType  string
	ResourceID    string
	WellID        string
	Metadata      json.RawMessage
	PayloadDigest string
	IP            string
	UserAgent     string
	CreatedAt     time.Time
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return "audit-" + hex.EncodeToString(buf)
}

// DigestJSON computes a SHA256 hex digest for metadata payloads.
func DigestJSON(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FromRequest builds an entry for the authenticated caller of r.
func FromRequest(r *http.Request, action, resourceType, resourceID, wellID string, meta map[string]any) Entry {
	ctx := r.Context()
	var payload json.RawMessage
	if len(meta) > 0 {
		payload, _ = json.Marshal(meta)
	}
	return Entry{
		UserID:       auth.UserIDFromContext(ctx),
		Username:     auth.UsernameFromContext(ctx),
		Role:         string(auth.RoleFromContext(ctx)),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		WellID:       wellID,
		Metadata:     payload,
		IP:           ClientIP(r),
		UserAgent:    r.UserAgent(),
	}
}
