package rabbitmq

import (
	"errors"
	"listing-site/internal/core/port"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loggedEntry struct {
	level  string
	msg    string
	err    error
	fields port.Fields
}

type recordingLogger struct {
	entries *[]loggedEntry
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{entries: &[]loggedEntry{}}
}

func (l recordingLogger) add(level, msg string, err error, fields port.Fields) {
	*l.entries = append(*l.entries, loggedEntry{level: level, msg: msg, err: err, fields: fields})
}

func (l recordingLogger) Debug(msg string, fields port.Fields) { l.add("debug", msg, nil, fields) }
func (l recordingLogger) Info(msg string, fields port.Fields)  { l.add("info", msg, nil, fields) }
func (l recordingLogger) Warn(msg string, fields port.Fields)  { l.add("warn", msg, nil, fields) }
func (l recordingLogger) Error(msg string, err error, fields port.Fields) {
	l.add("error", msg, err, fields)
}
func (l recordingLogger) WithFields(port.Fields) port.LoggerPort { return l }

func TestPkgLoggerBridge_RoutesLevels(t *testing.T) {
	target := newRecordingLogger()
	bridge := NewPkgLoggerBridge(target)
	reconnectErr := errors.New("dial tcp: connection refused")

	bridge.Debug("Producer channel opened", "exchange", "listing_site_events")
	bridge.Info("ConnectionManager: Reconnected")
	bridge.Warn("ConnectionManager: Connection lost, reconnecting", "reason", "EOF")
	bridge.Error(reconnectErr, "ConnectionManager: Reconnect failed", "retry_in", "2s")

	entries := *target.entries
	require.Len(t, entries, 4)
	assert.Equal(t, []string{"debug", "info", "warn", "error"},
		[]string{entries[0].level, entries[1].level, entries[2].level, entries[3].level})
	assert.Equal(t, "listing_site_events", entries[0].fields["exchange"])
	assert.Nil(t, entries[1].fields)
	assert.ErrorIs(t, entries[3].err, reconnectErr)
	assert.Equal(t, "2s", entries[3].fields["retry_in"])
}

func TestPkgLoggerBridge_MalformedPairs(t *testing.T) {
	fields := pairsToFields([]interface{}{"exchange", "listing_site_events", 42, "answer", "dangling"})
	assert.Equal(t, port.Fields{
		"exchange": "listing_site_events",
		"42":       "answer",
		badKey:     "dangling",
	}, fields)
}

func TestPkgLoggerBridge_NilTarget(t *testing.T) {
	bridge := NewPkgLoggerBridge(nil)
	assert.NotPanics(t, func() { bridge.Error(errors.New("boom"), "Error closing channel") })
}
