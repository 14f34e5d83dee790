//go:build darwin

package sysmem

import "golang.org/x/sys/unix"

// systemMemory reads total and free RAM on macOS using sysctl.
func systemMemory() (total, avail uint64, ok bool) {
	total, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, 0, false
	}
	freePages, err := unix.SysctlUint32("vm.page_free_count")
	if err != nil {
		// Total is still useful; assume a quarter of it is free.
		return total, total / 4, true
	}
	return total, uint64(freePages) * uint64(unix.Getpagesize()), true
}
