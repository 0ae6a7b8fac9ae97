// pkg/nuget/platform.go
package nuget

import (
	"fmt"
	"os/exec"
)

// Detect resolves the NuGet executable, either an explicit path or a name on PATH
func Detect(path string) (string, error) {
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", fmt.Errorf("nuget executable %q not found: %w", path, err)
	}
	return resolved, nil
}
