package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	current Handler = &LogHandler{}
)

// SetHandler installs h as the process-wide handler. nil restores a
// LogHandler on the default slog logger.
func SetHandler(h Handler) {
	if h == nil {
		h = &LogHandler{}
	}
	mu.Lock()
	current = h
	mu.Unlock()
}

// CurrentHandler returns the handler installed by SetHandler.
func CurrentHandler() Handler {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Report hands err to the current handler, stamping it if needed.
func Report(err *Error) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	CurrentHandler().HandleError(err)
}

// ReportPanic hands err to the current handler, stamping it if needed.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	CurrentHandler().HandlePanic(err)
}

// Recover reports a panic in progress and stops it. It must be deferred
// directly:
//
//	defer errors.Recover("observe.main")
func Recover(op string) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
	}
}

// RecoverWithCallback is Recover followed by onPanic(r) once the panic has been
// reported.
func RecoverWithCallback(op string, onPanic func(r any)) {
	r := recover()
	if r == nil {
		return
	}
	reportRecovered(op, r)
	if onPanic != nil {
		onPanic(r)
	}
}

func reportRecovered(op string, r any) {
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
}

func stamp(ts *time.Time) {
	if ts.IsZero() {
		*ts = time.Now()
	}
}

// CaptureStack formats the stack of its caller's caller, one frame per entry.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for more := true; more; {
		var f runtime.Frame
		f, more = frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
	}
	return sb.String()
}
