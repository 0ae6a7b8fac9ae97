// pkg/core/errors.go
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigAttributeMissing indicates a packages file entry lacks a required attribute
	ErrConfigAttributeMissing = errors.New("required package attribute missing")

	// ErrVersionSuffixUnresolvable indicates the engine suffix could not be read from the project
	ErrVersionSuffixUnresolvable = errors.New("version suffix unresolvable")

	// ErrDuplicatePackage indicates a package id listed more than once
	ErrDuplicatePackage = errors.New("duplicate package id")

	// ErrStalePurgeFailed indicates an old payload directory could not be removed
	ErrStalePurgeFailed = errors.New("stale package purge failed")

	// ErrToolUnknownOutput indicates the package tool printed nothing we recognize
	ErrToolUnknownOutput = errors.New("unknown package tool output")

	// ErrToolReportedFailure indicates the package tool reported a failure
	ErrToolReportedFailure = errors.New("package tool reported failure")

	// ErrLinkReplacementFailed indicates the destination link could not be created
	ErrLinkReplacementFailed = errors.New("link replacement failed")

	// ErrCleanupNonFatal indicates a best-effort cleanup step failed
	ErrCleanupNonFatal = errors.New("cleanup failed")

	// ErrEditorRunning indicates a blocking editor process is running
	ErrEditorRunning = errors.New("editor is running")

	// ErrUnknownPackageKind indicates a nuspec tag other than Main or Plugin
	ErrUnknownPackageKind = errors.New("unknown package kind")

	// ErrVersionUnresolvable indicates no version could be read for a publishable package
	ErrVersionUnresolvable = errors.New("package version unresolvable")

	// ErrInvalidArtifact indicates a packed artifact is missing its manifest
	ErrInvalidArtifact = errors.New("invalid package artifact")
)

// Error wraps an error with the operation and package it belongs to
type Error struct {
	Op      string // Operation that failed
	Package string // Package id if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsWarning reports whether err only deserves a warning
func IsWarning(err error) bool {
	return errors.Is(err, ErrStalePurgeFailed) ||
		errors.Is(err, ErrCleanupNonFatal) ||
		errors.Is(err, ErrUnknownPackageKind) ||
		errors.Is(err, ErrVersionUnresolvable)
}
