package logging

// LogEntry represents a structured log record with fields particularly
// relevant to sampling and optimization runs.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Run-specific fields
	RunID string // Identifies one driver run across its steps
	Step  int    // Optimization step the entry belongs to, -1 if none

	// General structured data
	Fields map[string]interface{}
}
