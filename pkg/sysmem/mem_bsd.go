//go:build freebsd || openbsd || netbsd || dragonfly

package sysmem

import "golang.org/x/sys/unix"

// systemMemory reads RAM on BSD variants using sysctl.
func systemMemory() (total, avail uint64, ok bool) {
	total, err := unix.SysctlUint64("hw.physmem")
	if err != nil || total == 0 {
		total, err = unix.SysctlUint64("hw.realmem")
		if err != nil || total == 0 {
			return 0, 0, false
		}
	}

	// vm.stats.vm.v_free_count only exists on FreeBSD and DragonFly.
	freePages, err := unix.SysctlUint32("vm.stats.vm.v_free_count")
	if err != nil {
		return total, total / 4, true
	}
	return total, uint64(freePages) * uint64(unix.Getpagesize()), true
}
