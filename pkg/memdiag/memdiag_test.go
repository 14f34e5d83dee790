package memdiag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eunmann/i32sort/pkg/logging"
	"github.com/rs/zerolog"
)

func TestRead(t *testing.T) {
	stats := Read()
	if stats.HeapSys == 0 {
		t.Error("HeapSys should be non-zero in a running program")
	}
	if stats.HeapAlloc > stats.HeapSys {
		t.Errorf("HeapAlloc %d exceeds HeapSys %d", stats.HeapAlloc, stats.HeapSys)
	}
}

func TestFormatMB(t *testing.T) {
	if got := FormatMB(3 * 1024 * 1024 / 2); got != "1.5MB" {
		t.Errorf("FormatMB = %q, want 1.5MB", got)
	}
}

func TestTrackerPeakAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { logging.Init(false, false) })

	tr := NewTracker(Config{Enabled: true})
	tr.SetPhase("run_build")

	if tr.PeakHeap() == 0 {
		t.Error("PeakHeap should be recorded after SetPhase")
	}
	if !strings.Contains(buf.String(), `"phase":"run_build"`) {
		t.Errorf("expected phase in log output, got: %s", buf.String())
	}
}

func TestTrackerDisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { logging.Init(false, false) })

	tr := NewTracker(Config{})
	tr.SetPhase("merge")

	if buf.Len() != 0 {
		t.Errorf("disabled tracker logged: %s", buf.String())
	}
	if tr.PeakHeap() == 0 {
		t.Error("disabled tracker should still record the peak")
	}
}
