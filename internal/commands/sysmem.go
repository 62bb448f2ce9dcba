package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/quasar/mclauncher/internal/platform"
)

// sysMemoryMiB reports the host's total installed RAM in MiB, backing the
// `sys_memory` command. Go has no portable stdlib call for this (mirroring
// why internal/platform.Current takes its OS version string as a
// caller-supplied parameter instead), and no memory-query library appears
// anywhere in the pack, so the value is read directly from the OS: Linux
// parses /proc/meminfo, the standard kernel interface for it. Every other
// platform family returns an error.
func sysMemoryMiB(info platform.Info) (int, error) {
	switch info.Family {
	case platform.Linux:
		return linuxMemTotalMiB()
	default:
		return 0, fmt.Errorf("sys_memory: unsupported platform family %q", info.Family)
	}
}

func linuxMemTotalMiB() (int, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, fmt.Errorf("open /proc/meminfo: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, fmt.Errorf("malformed MemTotal line %q", line)
		}
		kib, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, fmt.Errorf("parse MemTotal value %q: %w", fields[1], err)
		}
		return kib / 1024, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan /proc/meminfo: %w", err)
	}
	return 0, fmt.Errorf("MemTotal not found in /proc/meminfo")
}
