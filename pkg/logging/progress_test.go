package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	pt := NewProgressTracker("run_build", 4, zerolog.New(&buf))

	if pt.ETA() != 0 {
		t.Errorf("ETA before any step = %v, want 0", pt.ETA())
	}

	pt.RecordCompletion(100 * time.Millisecond)
	pt.RecordCompletion(300 * time.Millisecond)

	if pt.Completed() != 2 || pt.Total() != 4 {
		t.Errorf("Completed/Total = %d/%d, want 2/4", pt.Completed(), pt.Total())
	}
	if pct := pt.ProgressPct(); pct != 50.0 {
		t.Errorf("ProgressPct = %.1f, want 50", pct)
	}
	// avg 200ms * 2 remaining
	if eta := pt.ETA(); eta != 400*time.Millisecond {
		t.Errorf("ETA = %v, want 400ms", eta)
	}
	if pt.Elapsed() <= 0 {
		t.Error("Elapsed should be positive")
	}
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	pt := NewProgressTracker("radix", 0, zerolog.Nop())

	if pct := pt.ProgressPct(); pct != 100.0 {
		t.Errorf("expected 100%% for zero total, got %.1f%%", pct)
	}
	if eta := pt.ETA(); eta != 0 {
		t.Errorf("expected 0 ETA for zero total, got %v", eta)
	}
}

func TestProgressTracker_LogStep(t *testing.T) {
	var buf bytes.Buffer
	pt := NewProgressTracker("radix", 4, zerolog.New(&buf))
	pt.RecordCompletion(time.Second)

	pt.LogStep("radix pass complete", func(e *zerolog.Event) {
		e.Int("pass", 0)
	})

	out := buf.String()
	for _, want := range []string{`"phase":"radix"`, `"done":1`, `"total":4`, `"pass":0`, `"eta_ms":3000`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestCompletionEvent_BasicFields(t *testing.T) {
	var buf bytes.Buffer
	SetPrettyMode(false)

	PhaseComplete(zerolog.New(&buf), "merge", 500*time.Millisecond).
		Str("engine", "merge").
		Int("runs", 42).
		Log("merge complete")

	out := buf.String()
	for _, want := range []string{
		`"event":"phase_completed"`,
		`"phase":"merge"`,
		`"duration_ms":500`,
		`"engine":"merge"`,
		`"runs":42`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
	if strings.Contains(out, "duration_h") {
		t.Errorf("unexpected human field with pretty mode off: %s", out)
	}
}

func TestCompletionEvent_PrettyFields(t *testing.T) {
	var buf bytes.Buffer
	SetPrettyMode(true)
	t.Cleanup(func() { SetPrettyMode(false) })

	NewCompletionEvent(zerolog.New(&buf), "sort_completed", "sort", time.Second).
		Bytes("input_bytes", 1073741824).
		Count("ints", 1500000).
		Throughput(1073741824).
		Log("sort complete")

	out := buf.String()
	for _, want := range []string{
		`"input_bytes":1073741824`,
		`"input_bytes_h":"1.00 GiB"`,
		`"ints":1500000`,
		`"ints_h":"1.50M"`,
		`"throughput_h":"1.00 GiB/s"`,
		`"duration_h":"1.00s"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestCompletionEvent_LogDebugFiltered(t *testing.T) {
	var buf bytes.Buffer
	NewCompletionEvent(zerolog.New(&buf).Level(zerolog.InfoLevel), "e", "p", time.Second).
		Int("x", 1).
		LogDebug("hidden")

	if buf.Len() != 0 {
		t.Errorf("debug event leaked at info level: %s", buf.String())
	}
}
