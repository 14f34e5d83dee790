package logging

import (
	"time"

	"github.com/eunmann/i32sort/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// ProgressTracker tracks progress over a known number of steps (runs,
// radix passes) with ETA calculation. It is not safe for concurrent use;
// sorts run on a single goroutine.
type ProgressTracker struct {
	total     int64
	completed int64
	startTime time.Time
	log       zerolog.Logger
	phase     string

	// For moving average of step durations
	recentDurations []time.Duration
	maxRecent       int
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker(phase string, total int64, log zerolog.Logger) *ProgressTracker {
	return &ProgressTracker{
		total:           total,
		startTime:       time.Now(),
		log:             log,
		phase:           phase,
		recentDurations: make([]time.Duration, 0, 8),
		maxRecent:       8,
	}
}

// RecordCompletion records that a step completed with the given duration.
func (pt *ProgressTracker) RecordCompletion(d time.Duration) {
	pt.completed++
	if len(pt.recentDurations) >= pt.maxRecent {
		pt.recentDurations = pt.recentDurations[1:]
	}
	pt.recentDurations = append(pt.recentDurations, d)
}

// ProgressPct returns the progress percentage (0-100).
func (pt *ProgressTracker) ProgressPct() float64 {
	if pt.total <= 0 {
		return 100.0
	}
	return float64(pt.completed) * 100.0 / float64(pt.total)
}

// ETA returns the estimated time remaining from the recent step durations.
func (pt *ProgressTracker) ETA() time.Duration {
	if pt.completed == 0 {
		return 0
	}
	remaining := pt.total - pt.completed
	if remaining <= 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range pt.recentDurations {
		sum += d
	}
	avg := sum / time.Duration(len(pt.recentDurations))
	return avg * time.Duration(remaining)
}

// Elapsed returns time since tracking started.
func (pt *ProgressTracker) Elapsed() time.Duration {
	return time.Since(pt.startTime)
}

// Completed returns the completed step count.
func (pt *ProgressTracker) Completed() int64 {
	return pt.completed
}

// Total returns the expected step count.
func (pt *ProgressTracker) Total() int64 {
	return pt.total
}

// LogStep emits a debug event for the most recent step.
func (pt *ProgressTracker) LogStep(msg string, fields func(e *zerolog.Event)) {
	e := pt.log.Debug().
		Str("phase", pt.phase).
		Int64("done", pt.completed).
		Int64("total", pt.total).
		Float64("progress_pct", pt.ProgressPct())
	if eta := pt.ETA(); eta > 0 {
		e = e.Int64("eta_ms", eta.Milliseconds())
		if IsPrettyMode() {
			e = e.Str("eta_h", humanfmt.Duration(eta))
		}
	}
	if fields != nil {
		fields(e)
	}
	e.Msg(msg)
}

// CompletionEvent helps build consistent completion log events.
type CompletionEvent struct {
	log     zerolog.Logger
	event   string
	phase   string
	elapsed time.Duration
	fields  []func(e *zerolog.Event) *zerolog.Event
}

// NewCompletionEvent creates a new completion event builder.
func NewCompletionEvent(log zerolog.Logger, event, phase string, elapsed time.Duration) *CompletionEvent {
	return &CompletionEvent{
		log:     log,
		event:   event,
		phase:   phase,
		elapsed: elapsed,
	}
}

// PhaseComplete starts a phase completion event.
func PhaseComplete(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "phase_completed", phase, elapsed)
}

func (ce *CompletionEvent) add(f func(e *zerolog.Event) *zerolog.Event) *CompletionEvent {
	ce.fields = append(ce.fields, f)
	return ce
}

// Str adds a string field.
func (ce *CompletionEvent) Str(key, val string) *CompletionEvent {
	return ce.add(func(e *zerolog.Event) *zerolog.Event { return e.Str(key, val) })
}

// Int adds an int field.
func (ce *CompletionEvent) Int(key string, val int) *CompletionEvent {
	return ce.add(func(e *zerolog.Event) *zerolog.Event { return e.Int(key, val) })
}

// Bytes adds a byte count with an optional human-readable companion.
func (ce *CompletionEvent) Bytes(key string, n int64) *CompletionEvent {
	return ce.add(func(e *zerolog.Event) *zerolog.Event {
		e = e.Int64(key, n)
		if IsPrettyMode() {
			e = e.Str(key+"_h", humanfmt.Bytes(n))
		}
		return e
	})
}

// Count adds a count with an optional human-readable companion.
func (ce *CompletionEvent) Count(key string, n int64) *CompletionEvent {
	return ce.add(func(e *zerolog.Event) *zerolog.Event {
		e = e.Int64(key, n)
		if IsPrettyMode() {
			e = e.Str(key+"_h", humanfmt.Count(n))
		}
		return e
	})
}

// Throughput adds throughput fields for bytes processed over the event's duration.
func (ce *CompletionEvent) Throughput(n int64) *CompletionEvent {
	if ce.elapsed <= 0 {
		return ce
	}
	return ce.add(func(e *zerolog.Event) *zerolog.Event {
		e = e.Float64("throughput_bps", float64(n)/ce.elapsed.Seconds())
		if IsPrettyMode() {
			e = e.Str("throughput_h", humanfmt.Throughput(n, ce.elapsed))
		}
		return e
	})
}

// Log emits the completion event at info level.
func (ce *CompletionEvent) Log(msg string) {
	ce.emit(ce.log.Info(), msg)
}

// LogDebug emits the completion event at debug level.
func (ce *CompletionEvent) LogDebug(msg string) {
	ce.emit(ce.log.Debug(), msg)
}

func (ce *CompletionEvent) emit(e *zerolog.Event, msg string) {
	e = e.Str("event", ce.event).
		Str("phase", ce.phase).
		Int64("duration_ms", ce.elapsed.Milliseconds())
	if IsPrettyMode() {
		e = e.Str("duration_h", humanfmt.Duration(ce.elapsed))
	}
	for _, f := range ce.fields {
		e = f(e)
	}
	e.Msg(msg)
}
