//go:build unix

package config

import (
	"os"
	"syscall"
)

// deviceOf returns the filesystem device number backing dir, used by
// findProjectRoot to stop the upward walk at a mount boundary.
func deviceOf(dir string) (uint64, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return 0, err
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Dev), nil
	}
	return 0, nil
}
