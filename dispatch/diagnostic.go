package dispatch

import (
	"fmt"

	"github.com/aalemi-dev/sliderule-go/logger"
	"github.com/aalemi-dev/sliderule-go/record"
)

// Record types the service uses to report on a request in-stream.
const (
	LogRecord       = "logrec"
	EventRecord     = "eventrec"
	ExceptionRecord = "exceptrec"
)

// Exception codes carried by exception records.
const (
	CodeInfo                 = 1
	CodeError                = -1
	CodeTimeout              = -2
	CodeResourceDoesNotExist = -3
	CodeEmptySubset          = -4
	CodeSimplify             = -5
)

// EventLog is the eventrec type value for log events; other event types
// (traces, metrics) are not reported.
const EventLog = 1

// IsDiagnostic reports whether typeName is one of the in-stream diagnostic
// record types.
func IsDiagnostic(typeName string) bool {
	switch typeName {
	case LogRecord, EventRecord, ExceptionRecord:
		return true
	default:
		return false
	}
}

// Diagnostic is a message the service attached to a request.
type Diagnostic struct {
	Type    string
	Level   logger.ServerLevel
	Code    int64
	Message string
}

func (d *Diagnostic) Error() string {
	if d.Type == ExceptionRecord {
		return fmt.Sprintf("%s (%s): %s", d.Level, CodeName(d.Code), d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Level, d.Message)
}

// Failed reports whether the diagnostic describes a failure.
func (d *Diagnostic) Failed() bool {
	if d.Type == ExceptionRecord {
		return d.Code < 0 || d.Level >= logger.ServerError
	}
	return d.Level >= logger.ServerError
}

// CodeName names an exception code.
func CodeName(code int64) string {
	switch code {
	case CodeInfo:
		return "INFO"
	case CodeError:
		return "ERROR"
	case CodeTimeout:
		return "TIMEOUT"
	case CodeResourceDoesNotExist:
		return "RESOURCE_DOES_NOT_EXIST"
	case CodeEmptySubset:
		return "EMPTY_SUBSET"
	case CodeSimplify:
		return "SIMPLIFY"
	default:
		return fmt.Sprintf("CODE(%d)", code)
	}
}

// ParseDiagnostic extracts the diagnostic carried by rec. It returns false
// for non-diagnostic records and for events that are not log events.
func ParseDiagnostic(rec *record.Record) (*Diagnostic, bool) {
	if rec == nil {
		return nil, false
	}
	level, _ := rec.Int("level")
	d := &Diagnostic{Type: rec.Type, Level: logger.ServerLevel(level)}

	switch rec.Type {
	case LogRecord:
		d.Message, _ = rec.Text("message")
	case EventRecord:
		if kind, ok := rec.Int("type"); ok && kind != EventLog {
			return nil, false
		}
		d.Message, _ = rec.Text("attr")
	case ExceptionRecord:
		d.Code, _ = rec.Int("code")
		d.Message, _ = rec.Text("text")
	default:
		return nil, false
	}
	return d, true
}
