// pkg/nuget/types.go
package nuget

import (
	"time"

	"github.com/charmbracelet/log"
)

// Config configures the NuGet client
type Config struct {
	Path   string        // Executable, looked up on PATH when not absolute
	Dir    string        // Working directory for every invocation
	Env    []string      // Extra KEY=VALUE pairs
	Grace  time.Duration // Wait after cancellation before the process is killed
	Debug  bool
	Logger *log.Logger
}

// Result is the captured outcome of one invocation
type Result struct {
	Args     []string
	Output   string // Combined stdout and stderr
	ExitCode int
}

// SourceOutcome is the classified result of "sources Add"
type SourceOutcome int

const (
	// SourceUnknown means the output matched no known pattern
	SourceUnknown SourceOutcome = iota
	// SourceAdded means the source was registered by this call
	SourceAdded
	// SourceExists means a source with that name was already registered
	SourceExists
)

// Artifact describes a packed .nupkg
type Artifact struct {
	Path    string
	Entries []string
	Size    int64
}
