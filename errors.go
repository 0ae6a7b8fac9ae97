// errors.go
package pbget

import (
	"errors"

	"github.com/projectborealis/pbget/pkg/core"
)

var (
	// ErrPackageNotFound indicates no nuspec exists for a requested package
	ErrPackageNotFound = errors.New("package not found")

	// ErrToolNotAvailable indicates the NuGet executable could not be found
	ErrToolNotAvailable = errors.New("nuget not available")
)

// Re-export the error taxonomy shared by all packages
var (
	ErrConfigAttributeMissing    = core.ErrConfigAttributeMissing
	ErrVersionSuffixUnresolvable = core.ErrVersionSuffixUnresolvable
	ErrDuplicatePackage          = core.ErrDuplicatePackage
	ErrStalePurgeFailed          = core.ErrStalePurgeFailed
	ErrToolUnknownOutput         = core.ErrToolUnknownOutput
	ErrToolReportedFailure       = core.ErrToolReportedFailure
	ErrLinkReplacementFailed     = core.ErrLinkReplacementFailed
	ErrCleanupNonFatal           = core.ErrCleanupNonFatal
	ErrEditorRunning             = core.ErrEditorRunning
	ErrUnknownPackageKind        = core.ErrUnknownPackageKind
	ErrVersionUnresolvable       = core.ErrVersionUnresolvable
	ErrInvalidArtifact           = core.ErrInvalidArtifact
)

// Error wraps an error with the operation and package it belongs to
type Error = core.Error

// IsWarning reports whether err only deserves a warning
func IsWarning(err error) bool {
	return core.IsWarning(err)
}
