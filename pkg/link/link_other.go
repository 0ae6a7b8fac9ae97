//go:build !windows

// pkg/link/link_other.go
package link

import (
	"os"
	"path/filepath"
)

const linkKind = "symlink"

func createLink(target, destination string) error {
	return os.Symlink(target, destination)
}

func isLink(_ string, fi os.FileInfo) bool {
	return fi.Mode()&os.ModeSymlink != 0
}

func trimDevicePrefix(path string) string {
	return path
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
