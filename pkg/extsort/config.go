package extsort

import (
	"fmt"

	"github.com/eunmann/i32sort/pkg/membudget"
	"github.com/eunmann/i32sort/pkg/memdiag"
)

// Strategy selects between in-memory and external sorting.
type Strategy string

const (
	// StrategyAuto sorts in memory when the input fits the budget and
	// externally otherwise.
	StrategyAuto Strategy = "auto"
	// StrategyInMemory always loads the whole input.
	StrategyInMemory Strategy = "memory"
	// StrategyExternal always goes through temporary files.
	StrategyExternal Strategy = "external"
)

// Engine selects the external sorting algorithm.
type Engine string

const (
	// EngineMerge builds sorted runs and k-way merges them.
	EngineMerge Engine = "merge"
	// EngineRadix runs four 256-bucket LSD passes over temporary files.
	EngineRadix Engine = "radix"
)

// ParseStrategy converts a flag value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyInMemory, StrategyExternal:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want auto, memory or external)", s)
	}
}

// ParseEngine converts a flag value into an Engine.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case "", EngineMerge:
		return EngineMerge, nil
	case EngineRadix:
		return EngineRadix, nil
	default:
		return "", fmt.Errorf("unknown engine %q (want merge or radix)", s)
	}
}

// Config holds configuration for one Sorter.
type Config struct {
	// TempDir is the parent of the per-sort temporary directory.
	// If empty, os.TempDir() is used.
	TempDir string

	// Strategy picks in-memory or external sorting. Default: StrategyAuto.
	Strategy Strategy

	// Engine picks the external algorithm. Default: EngineMerge.
	Engine Engine

	// Capacity, when positive, fixes the number of ints held in memory
	// and bypasses the estimator. The in-memory decision then becomes
	// count <= Capacity.
	Capacity int

	// BufferSize is the read/write buffer for input, output and run files.
	// Default: 1MB.
	BufferSize int

	// BucketBufferSize is the write buffer per radix bucket. 256 of them
	// are open at once. Default: 64KB.
	BucketBufferSize int

	// RunCodec compresses merge runs, trading CPU for temp-disk I/O.
	// Default: CodecNone.
	RunCodec Codec

	// RunCompressionLevel is the zstd effort for CodecZstd runs.
	// Default: CompressionFastest.
	RunCompressionLevel CompressionLevel

	// Probe supplies memory figures to the estimator.
	// Default: membudget.RuntimeProbe.
	Probe membudget.Probe

	// Policy holds the estimator constants. Default: membudget.DefaultPolicy().
	Policy membudget.Policy

	// MemDiag controls phase memory logging.
	MemDiag memdiag.Config
}

// DefaultConfig returns a Config with the runtime probe and default policy.
func DefaultConfig() Config {
	return Config{
		TempDir:             "",
		Strategy:            StrategyAuto,
		Engine:              EngineMerge,
		BufferSize:          1 << 20,  // 1MB
		BucketBufferSize:    64 << 10, // 64KB
		RunCodec:            CodecNone,
		RunCompressionLevel: CompressionFastest,
		Probe:               membudget.RuntimeProbe{},
		Policy:              membudget.DefaultPolicy(),
		MemDiag:             memdiag.DefaultConfig(),
	}
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Strategy == "" {
		c.Strategy = def.Strategy
	}
	if c.Engine == "" {
		c.Engine = def.Engine
	}
	if c.BufferSize <= 0 {
		c.BufferSize = def.BufferSize
	}
	if c.BucketBufferSize <= 0 {
		c.BucketBufferSize = def.BucketBufferSize
	}
	if c.RunCodec == "" {
		c.RunCodec = def.RunCodec
	}
	if c.RunCompressionLevel == 0 {
		c.RunCompressionLevel = def.RunCompressionLevel
	}
	if c.Probe == nil {
		c.Probe = def.Probe
	}
	return c
}
