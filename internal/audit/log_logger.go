package audit

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogLogger writes audit entries to the structured log and keeps the most
// recent ones in memory. It backs the in-memory storage mode.
type LogLogger struct {
	logger logrus.FieldLogger
	limit  int

	mu      sync.Mutex
	entries []Entry
}

// NewLogLogger constructs a LogLogger keeping up to limit entries.
func NewLogLogger(logger logrus.FieldLogger, limit int) *LogLogger {
	if limit <= 0 {
		limit = 1000
	}
	return &LogLogger{logger: logger, limit: limit}
}

// Log records an entry.
func (l *LogLogger) Log(ctx context.Context, entry Entry) error {
	_ = ctx
	entry = withDefaults(entry)
	if l.logger != nil {
		l.logger.WithFields(logrus.Fields{
			"audit_id":      entry.ID,
			"user_id":       entry.UserID,
			"action":        entry.Action,
			"resource_type": entry.ResourceType,
			"resource_id":   entry.ResourceID,
			"well_id":       entry.WellID,
			"ip":            entry.IP,
		}).Info("audit")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
	return nil
}

// Entries returns a copy of the retained entries, oldest first.
func (l *LogLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
