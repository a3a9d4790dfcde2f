package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Log appends a debug entry to the specified log file in logDir.
func Log(logDir, logName, message string, data interface{}) {
	_ = os.MkdirAll(logDir, 0o755)

	logFile := filepath.Join(logDir, logName)
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	ts := time.Now().Format("2006-01-02T15:04:05")
	fmt.Fprintf(f, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(f, "[%s] %s\n", ts, message)

	if data != nil {
		b, err := json.MarshalIndent(data, "", "  ")
		if err == nil {
			fmt.Fprintf(f, "%s\n", b)
		}
	}
}

// Tracer records pipeline stage events with timings. A nil Tracer is
// silent, so callers pass t.Trace around unconditionally.
type Tracer struct {
	logDir  string
	logName string
	started time.Time
}

// NewTracer creates a tracer that appends to logDir/logName.
func NewTracer(logDir, logName string) *Tracer {
	return &Tracer{logDir: logDir, logName: logName, started: time.Now()}
}

// Trace logs one pipeline stage event with the elapsed time since the
// tracer was created.
func (t *Tracer) Trace(stage string, data any) {
	if t == nil {
		return
	}
	elapsed := time.Since(t.started).Milliseconds()
	Log(t.logDir, t.logName, fmt.Sprintf("%s (+%dms)", stage, elapsed), data)
}
