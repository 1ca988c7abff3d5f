package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", "json", &buf)
	require.NoError(t, err)

	logger.WithField("well_id", "w1").Debug("zone computed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "w1", line["well_id"])
	assert.Equal(t, "zone computed", line["msg"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", "text", &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestRejectsUnknownSettings(t *testing.T) {
	_, err := New("loud", "text", nil)
	assert.Error(t, err)
	_, err = New("info", "xml", nil)
	assert.Error(t, err)
}
