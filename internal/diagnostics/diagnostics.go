// Package diagnostics carries the structured, severity-leveled log
// records spec.md §6 specifies for Newton non-convergence, neighbor
// truncation, ghost counts, and fatal errors — threaded through
// internal/engine the way the teacher threads dynamo.SimError/
// Result.Errors through sim.Simulator.Run, generalized from a single
// error slice to a leveled record stream so non-fatal counters can
// accumulate at step boundaries without aborting the run (spec.md §7).
package diagnostics

import "fmt"

// Severity classifies a diagnostic record (spec.md §6).
type Severity int

const (
	Info Severity = iota
	Warn
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Record is one diagnostic log line: a severity, the subsystem that
// raised it, a human-readable message, and the step it occurred on.
type Record struct {
	Severity  Severity
	Subsystem string
	Message   string
	Step      int
	ParticleID int // -1 when not particle-specific
}

func (r Record) String() string {
	if r.ParticleID >= 0 {
		return fmt.Sprintf("[%s] step=%d subsystem=%s particle=%d: %s", r.Severity, r.Step, r.Subsystem, r.ParticleID, r.Message)
	}
	return fmt.Sprintf("[%s] step=%d subsystem=%s: %s", r.Severity, r.Step, r.Subsystem, r.Message)
}

// Log accumulates diagnostic records across a run, the way
// dynamo.Result.Errors accumulates per-step failures, generalized to
// every severity rather than only fatal errors.
type Log struct {
	records []Record
	counts  [4]int
}

// NewLog returns an empty diagnostic log.
func NewLog() *Log { return &Log{} }

// Add appends a record and updates the running per-severity counters
// surfaced at step boundaries (spec.md §7: "non-fatal conditions are
// counted and emitted at step boundaries, never in inner loops").
func (l *Log) Add(r Record) {
	l.records = append(l.records, r)
	l.counts[r.Severity]++
}

// Info/Warn/Errorf/Fatalf are convenience constructors matching the
// severities above, each taking a subsystem name, step, and a
// printf-style message.
func (l *Log) Info(subsystem string, step int, format string, args ...any) {
	l.Add(Record{Severity: Info, Subsystem: subsystem, Step: step, ParticleID: -1, Message: fmt.Sprintf(format, args...)})
}

func (l *Log) Warn(subsystem string, step int, format string, args ...any) {
	l.Add(Record{Severity: Warn, Subsystem: subsystem, Step: step, ParticleID: -1, Message: fmt.Sprintf(format, args...)})
}

func (l *Log) Errorf(subsystem string, step int, format string, args ...any) {
	l.Add(Record{Severity: Error, Subsystem: subsystem, Step: step, ParticleID: -1, Message: fmt.Sprintf(format, args...)})
}

func (l *Log) Fatalf(subsystem string, step, particleID int, format string, args ...any) {
	l.Add(Record{Severity: Fatal, Subsystem: subsystem, Step: step, ParticleID: particleID, Message: fmt.Sprintf(format, args...)})
}

// Records returns every record accumulated so far, oldest first.
func (l *Log) Records() []Record { return l.records }

// Count returns how many records of the given severity have been
// logged.
func (l *Log) Count(s Severity) int { return l.counts[s] }

// HasFatal reports whether any Fatal-severity record has been logged.
func (l *Log) HasFatal() bool { return l.counts[Fatal] > 0 }
