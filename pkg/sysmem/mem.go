// Package sysmem provides cross-platform system memory detection.
//
// It reports both the installed RAM and the RAM the kernel currently
// considers available. Unsupported platforms fall back to conservative
// defaults with Reliable=false.
package sysmem

// DefaultTotalBytes is the fallback total memory (4 GiB) used when
// platform-specific detection fails or is unsupported.
const DefaultTotalBytes uint64 = 4 * 1024 * 1024 * 1024

// DefaultAvailableBytes is the fallback available memory (1 GiB).
const DefaultAvailableBytes uint64 = 1 * 1024 * 1024 * 1024

// Result holds one memory reading.
type Result struct {
	// TotalBytes is the installed system memory in bytes.
	TotalBytes uint64

	// AvailableBytes is the memory that can be handed to a process
	// right now without swapping.
	AvailableBytes uint64

	// Reliable indicates whether the values came from the platform
	// (true) or are fallback defaults (false).
	Reliable bool
}

// Read returns the current system memory figures.
func Read() Result {
	total, avail, ok := systemMemory()
	if !ok || total == 0 {
		return Result{
			TotalBytes:     DefaultTotalBytes,
			AvailableBytes: DefaultAvailableBytes,
			Reliable:       false,
		}
	}
	if avail > total {
		avail = total
	}
	return Result{
		TotalBytes:     total,
		AvailableBytes: avail,
		Reliable:       true,
	}
}

// AvailableBytes is a convenience function that returns just the available memory.
func AvailableBytes() uint64 {
	return Read().AvailableBytes
}
