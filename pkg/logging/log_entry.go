package logging

// LogEntry represents a structured log record. Training-step context, when
// present, rides along so file outputs can be correlated with reward logs.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Training-specific fields
	Step       int    // Training step the entry belongs to, 0 if none
	TaskFamily string // Task family being scored, empty if none

	// General structured data
	Fields map[string]interface{}
}
