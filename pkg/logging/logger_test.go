package logging

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memOutput collects entries for inspection.
type memOutput struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (m *memOutput) Write(e LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memOutput) Sync() error  { return nil }
func (m *memOutput) Close() error { return nil }

func TestSeverityFiltering(t *testing.T) {
	out := &memOutput{}
	logger := NewLogger(Config{Severity: WARN, Outputs: []Output{out}})

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	require.Len(t, out.entries, 2)
	assert.Equal(t, WARN, out.entries[0].Severity)
	assert.Equal(t, ERROR, out.entries[1].Severity)
}

func TestContextRunIDAndStep(t *testing.T) {
	out := &memOutput{}
	logger := NewLogger(Config{Severity: DEBUG, Outputs: []Output{out}})

	ctx := WithStep(WithRunID(context.Background(), "run-42"), 7)
	logger.Info(ctx, "energy estimate")

	require.Len(t, out.entries, 1)
	assert.Equal(t, "run-42", out.entries[0].RunID)
	assert.Equal(t, 7, out.entries[0].Step)
}

func TestDefaultFields(t *testing.T) {
	out := &memOutput{}
	logger := NewLogger(Config{
		Severity:      INFO,
		Outputs:       []Output{out},
		DefaultFields: map[string]interface{}{"n_chains": 16},
	})

	logger.Info(context.Background(), "sweep done")
	require.Len(t, out.entries, 1)
	assert.Equal(t, 16, out.entries[0].Fields["n_chains"])
}

func TestAcceptanceLoggedAtDebug(t *testing.T) {
	out := &memOutput{}
	logger := NewLogger(Config{Severity: DEBUG, Outputs: []Output{out}})

	logger.Acceptance(context.Background(), 0.5)
	require.Len(t, out.entries, 1)
	assert.Contains(t, out.entries[0].Message, "0.500")

	// Suppressed above DEBUG.
	quiet := NewLogger(Config{Severity: INFO, Outputs: []Output{out}})
	quiet.Acceptance(context.Background(), 0.5)
	assert.Len(t, out.entries, 1)
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, DEBUG, ParseSeverity("DEBUG"))
	assert.Equal(t, ERROR, ParseSeverity("ERROR"))
	assert.Equal(t, INFO, ParseSeverity("bogus"))
}

func TestFormatFields(t *testing.T) {
	s := formatFields(map[string]interface{}{"energy": complex(-1.25, 0.5)})
	assert.True(t, strings.Contains(s, "energy=-1.25+0.5i"))
}
