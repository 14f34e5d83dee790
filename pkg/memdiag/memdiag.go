// Package memdiag reads Go runtime memory statistics and logs them at
// phase boundaries of a sort.
//
// Enable phase logging with I32SORT_MEM_DEBUG=1.
package memdiag

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/eunmann/i32sort/pkg/logging"
)

// Config holds configuration for memory diagnostics.
type Config struct {
	// Enabled controls whether phase logging is active.
	Enabled bool
}

// DefaultConfig returns the default configuration, reading from environment.
func DefaultConfig() Config {
	return Config{
		Enabled: os.Getenv("I32SORT_MEM_DEBUG") == "1",
	}
}

// Stats holds memory statistics from runtime.
type Stats struct {
	// HeapAlloc is bytes allocated on heap and still in use.
	HeapAlloc uint64

	// HeapSys is bytes obtained from OS for heap.
	HeapSys uint64

	// HeapIdle is bytes in idle (unused) spans.
	HeapIdle uint64

	// HeapReleased is bytes released to OS.
	HeapReleased uint64

	// Sys is bytes obtained from OS.
	Sys uint64

	// NumGC is the number of completed GC cycles.
	NumGC uint32

	// MemoryLimit is the soft limit set with debug.SetMemoryLimit or
	// GOMEMLIMIT, or 0 when no limit is configured.
	MemoryLimit uint64
}

// Read reads current memory statistics.
func Read() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var limit uint64
	if l := debug.SetMemoryLimit(-1); l > 0 && l < math.MaxInt64 {
		limit = uint64(l)
	}

	return Stats{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		HeapIdle:     m.HeapIdle,
		HeapReleased: m.HeapReleased,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		MemoryLimit:  limit,
	}
}

// FormatMB formats bytes as megabytes.
func FormatMB(b uint64) string {
	return fmt.Sprintf("%.1fMB", float64(b)/(1024*1024))
}

// Tracker records peak heap usage across the phases of one sort.
type Tracker struct {
	config   Config
	mu       sync.Mutex
	phase    string
	peakHeap uint64
}

// NewTracker creates a new memory tracker.
func NewTracker(config Config) *Tracker {
	return &Tracker{
		config: config,
		phase:  "init",
	}
}

// SetPhase sets the current phase and logs a snapshot when enabled.
func (t *Tracker) SetPhase(phase string) {
	t.mu.Lock()
	t.phase = phase
	t.mu.Unlock()

	t.LogNow("phase_change")
}

// LogNow samples memory, updates the peak and logs when enabled.
func (t *Tracker) LogNow(reason string) {
	stats := Read()

	t.mu.Lock()
	phase := t.phase
	if stats.HeapAlloc > t.peakHeap {
		t.peakHeap = stats.HeapAlloc
	}
	peakHeap := t.peakHeap
	t.mu.Unlock()

	if !t.config.Enabled {
		return
	}

	logging.L().Debug().
		Str("reason", reason).
		Str("phase", phase).
		Str("heap_alloc", FormatMB(stats.HeapAlloc)).
		Str("heap_sys", FormatMB(stats.HeapSys)).
		Str("heap_idle", FormatMB(stats.HeapIdle)).
		Str("sys_total", FormatMB(stats.Sys)).
		Str("peak_heap", FormatMB(peakHeap)).
		Uint32("num_gc", stats.NumGC).
		Msg("memory stats")
}

// PeakHeap returns the peak heap allocation seen.
func (t *Tracker) PeakHeap() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.peakHeap
}
