// pkg/platform/utils.go
package platform

import (
	"os/exec"
	"strings"
)

// lookPath resolves cmd on PATH or as a path
func lookPath(cmd string) (string, bool) {
	if cmd == "" {
		return "", false
	}
	path, err := exec.LookPath(cmd)
	return path, err == nil
}

// processKey folds a process name for comparison: case-insensitive and
// without the .exe suffix, so "UE4Editor.exe" also matches "UE4Editor"
func processKey(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".exe")
}
