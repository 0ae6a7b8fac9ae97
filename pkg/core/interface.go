// pkg/core/interface.go
package core

import (
	"context"
	"time"
)

// PackageTool is the external package-manager executable as seen by pbget
type PackageTool interface {
	// Install installs id at version into outputDir
	Install(ctx context.Context, id, version, outputDir string) (*InstallResult, error)

	// Pack builds package id from a nuspec file into outputDir and returns the artifact path
	Pack(ctx context.Context, id, nuspecPath, version, outputDir string) (string, error)

	// Push publishes a packed artifact to source
	Push(ctx context.Context, artifact string, opts *PushOptions) error

	// Locals lists or clears the tool's local caches
	Locals(ctx context.Context, clear bool) error
}

// InstallOutcome is the classified result of an install invocation
type InstallOutcome int

const (
	// OutcomeUnknown means the output matched no known pattern. Always a failure.
	OutcomeUnknown InstallOutcome = iota
	// OutcomeAlreadyInstalled means the version was already present
	OutcomeAlreadyInstalled
	// OutcomeInstalled means the version was installed by this call
	OutcomeInstalled
	// OutcomeNotFound means the tool reported the package as unavailable
	OutcomeNotFound
)

// Success reports whether the outcome leaves the package installed
func (o InstallOutcome) Success() bool {
	return o == OutcomeAlreadyInstalled || o == OutcomeInstalled
}

func (o InstallOutcome) String() string {
	switch o {
	case OutcomeAlreadyInstalled:
		return "already installed"
	case OutcomeInstalled:
		return "installed"
	case OutcomeNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// InstallResult carries the classified outcome and the raw tool output
type InstallResult struct {
	Outcome  InstallOutcome
	ExitCode int
	Output   string
}

// PushOptions configures a push invocation
type PushOptions struct {
	Source  string        // Feed URL or configured source name
	APIKey  string        // Optional API key
	Timeout time.Duration // Passed to the tool as whole seconds
}
