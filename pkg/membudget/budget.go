// Package membudget decides how many int32 values one sort may hold in
// memory at once.
//
// The estimate is taken from memory that is obtainable right now, not from
// a constant, because the host can change between runs. A Probe supplies
// the raw figures so tests can pin them.
package membudget

import (
	"errors"
	"fmt"

	"github.com/eunmann/i32sort/pkg/memdiag"
	"github.com/eunmann/i32sort/pkg/sysmem"
)

// BytesPerInt is the in-memory size of one buffered value.
const BytesPerInt = 4

// BudgetSource indicates how the memory figures were obtained.
type BudgetSource string

const (
	// BudgetSourceRuntime indicates figures from the Go runtime and the host.
	BudgetSourceRuntime BudgetSource = "runtime"
	// BudgetSourceDefault indicates the host probe failed and defaults were used.
	BudgetSourceDefault BudgetSource = "default"
	// BudgetSourceCLI indicates a fixed limit given on the command line.
	BudgetSourceCLI BudgetSource = "cli"
	// BudgetSourceOverride indicates the capacity was set explicitly.
	BudgetSourceOverride BudgetSource = "override"
)

// Snapshot is one reading of process memory.
//
// Total is what the process already holds, Free is the unused part of
// Total, and Max is the ceiling Total may grow to.
type Snapshot struct {
	Free   uint64
	Total  uint64
	Max    uint64
	Source BudgetSource
}

// Obtainable returns the memory that can still be allocated: the free
// part of what is held plus the growth headroom up to Max.
func (s Snapshot) Obtainable() uint64 {
	free := min(s.Free, s.Total)
	var headroom uint64
	if s.Max > s.Total {
		headroom = s.Max - s.Total
	}
	return free + headroom
}

// Probe reports current memory availability.
type Probe interface {
	Snapshot() Snapshot
}

// RuntimeProbe reads the Go heap and the host's available RAM.
// Max is the soft memory limit when one is set, otherwise the heap plus
// the RAM the host reports as available.
type RuntimeProbe struct{}

// Snapshot implements Probe.
func (RuntimeProbe) Snapshot() Snapshot {
	stats := memdiag.Read()
	host := sysmem.Read()

	snap := Snapshot{
		Total:  stats.HeapSys,
		Free:   stats.HeapSys - min(stats.HeapAlloc, stats.HeapSys),
		Max:    stats.HeapSys + host.AvailableBytes,
		Source: BudgetSourceRuntime,
	}
	if !host.Reliable {
		snap.Source = BudgetSourceDefault
	}
	if stats.MemoryLimit > 0 && stats.MemoryLimit < snap.Max {
		snap.Max = stats.MemoryLimit
	}
	return snap
}

// StaticProbe reports a fixed amount of obtainable memory.
type StaticProbe struct {
	Bytes uint64
}

// Snapshot implements Probe.
func (p StaticProbe) Snapshot() Snapshot {
	return Snapshot{Free: 0, Total: 0, Max: p.Bytes, Source: BudgetSourceCLI}
}

// Policy holds the estimator constants.
type Policy struct {
	// Fraction of obtainable memory the sort may use for its int buffer.
	// The same fraction gates the in-memory decision.
	Fraction float64

	// MinCapacity and MaxCapacity clamp the capacity, in ints.
	MinCapacity int
	MaxCapacity int
}

// DefaultPolicy returns the standard policy: half of obtainable memory,
// clamped to [1,000,000, 20,000,000] ints.
func DefaultPolicy() Policy {
	return Policy{
		Fraction:    0.50,
		MinCapacity: 1_000_000,
		MaxCapacity: 20_000_000,
	}
}

// Budget is the immutable result of one estimate.
type Budget struct {
	// Capacity is the maximum number of ints held in memory at once.
	Capacity int

	// UsableBytes is Fraction * obtainable memory, before clamping.
	UsableBytes uint64

	// Snapshot is the reading the budget was derived from.
	Snapshot Snapshot

	// Source indicates how the budget was determined.
	Source BudgetSource
}

// FitsInMemory reports whether an input of sizeBytes can be sorted fully
// in memory. The comparison is inclusive: an input exactly UsableBytes
// long still fits.
func (b Budget) FitsInMemory(sizeBytes int64) bool {
	if sizeBytes < 0 {
		return false
	}
	return uint64(sizeBytes) <= b.UsableBytes
}

// Estimator turns probe readings into budgets.
type Estimator struct {
	probe  Probe
	policy Policy
}

// NewEstimator creates an estimator. A nil probe means RuntimeProbe; a
// zero policy means DefaultPolicy.
func NewEstimator(probe Probe, policy Policy) *Estimator {
	if probe == nil {
		probe = RuntimeProbe{}
	}
	def := DefaultPolicy()
	if policy.Fraction <= 0 || policy.Fraction > 1 {
		policy.Fraction = def.Fraction
	}
	if policy.MinCapacity <= 0 {
		policy.MinCapacity = def.MinCapacity
	}
	if policy.MaxCapacity < policy.MinCapacity {
		policy.MaxCapacity = max(def.MaxCapacity, policy.MinCapacity)
	}
	return &Estimator{probe: probe, policy: policy}
}

// Policy returns the effective policy.
func (e *Estimator) Policy() Policy {
	return e.policy
}

// Estimate samples the probe once and derives a budget.
func (e *Estimator) Estimate() Budget {
	snap := e.probe.Snapshot()
	usable := uint64(float64(snap.Obtainable()) * e.policy.Fraction)

	capacity := e.policy.MaxCapacity
	if ints := usable / BytesPerInt; ints < uint64(e.policy.MaxCapacity) {
		capacity = max(int(ints), e.policy.MinCapacity)
	}

	return Budget{
		Capacity:    capacity,
		UsableBytes: usable,
		Snapshot:    snap,
		Source:      snap.Source,
	}
}

// ParseHumanSize parses a human-readable size string (e.g., "4GiB", "512MB").
// Supported suffixes: B, KB, KiB, K, MB, MiB, M, GB, GiB, G, TB, TiB, T.
func ParseHumanSize(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("empty size string")
	}

	numEnd := 0
	for i, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			numEnd = i
			break
		}
		numEnd = i + 1
	}

	numStr := s[:numEnd]
	suffix := s[numEnd:]

	var num float64
	if _, err := fmt.Sscanf(numStr, "%f", &num); err != nil {
		return 0, fmt.Errorf("invalid number: %q", numStr)
	}

	var multiplier float64
	switch suffix {
	case "", "B":
		multiplier = 1.0
	case "KB":
		multiplier = 1000
	case "KiB", "K":
		multiplier = 1024
	case "MB":
		multiplier = 1000 * 1000
	case "MiB", "M":
		multiplier = 1024 * 1024
	case "GB":
		multiplier = 1000 * 1000 * 1000
	case "GiB", "G":
		multiplier = 1024 * 1024 * 1024
	case "TB":
		multiplier = 1000 * 1000 * 1000 * 1000
	case "TiB", "T":
		multiplier = 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	return uint64(num * multiplier), nil
}
