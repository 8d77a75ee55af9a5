//go:build !unix

package auth

import "os"

// The session directory lives under the per-user profile here and POSIX modes
// are not reported, so only the directory check in checkPrivateDir applies.
func checkDirOwnership(string, os.FileInfo) error {
	return nil
}
