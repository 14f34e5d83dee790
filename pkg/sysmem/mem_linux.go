//go:build linux

package sysmem

import "golang.org/x/sys/unix"

// systemMemory reads total and available RAM on Linux using sysinfo.
// Buffer memory is counted as available since the kernel reclaims it on demand.
func systemMemory() (total, avail uint64, ok bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, 0, false
	}
	unit := uint64(info.Unit)
	total = uint64(info.Totalram) * unit
	avail = (uint64(info.Freeram) + uint64(info.Bufferram)) * unit
	return total, avail, true
}
