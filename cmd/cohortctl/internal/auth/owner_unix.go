//go:build unix

package auth

import (
	"fmt"
	"os"
	"syscall"
)

func checkDirOwnership(dir string, info os.FileInfo) error {
	if perm := info.Mode().Perm(); perm != 0o700 {
		return fmt.Errorf("%w: %s has mode %04o, want 0700", ErrInsecureSessionDir, dir, perm)
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || int(stat.Uid) != os.Getuid() {
		return fmt.Errorf("%w: %s is owned by another user", ErrInsecureSessionDir, dir)
	}
	return nil
}
