// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"

	"github.com/projectborealis/pbget/pkg/link"
)

// Platform represents the detected system platform
type Platform struct {
	OS       string // linux, darwin, windows
	Arch     string // amd64, arm64
	LinkKind string // junction or symlink
	NuGet    string // Resolved NuGet executable, empty when not found
}

// Detect detects the current platform and whether nugetPath can be run
func Detect(nugetPath string) *Platform {
	p := &Platform{
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		LinkKind: link.Kind(),
	}

	if path, ok := lookPath(nugetPath); ok {
		p.NuGet = path
	}

	return p
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	nuget := p.NuGet
	if nuget == "" {
		nuget = "not found"
	}
	return fmt.Sprintf("%s/%s (links: %s, nuget: %s)",
		p.OS, p.Arch, p.LinkKind, nuget)
}
