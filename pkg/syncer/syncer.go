// pkg/syncer/syncer.go

// Package syncer reconciles installed binary packages with the packages
// file: stale payloads are purged, the requested version is installed
// through the package tool and the destination link is pointed at it.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/projectborealis/pbget/pkg/core"
	"github.com/projectborealis/pbget/pkg/link"
	"github.com/projectborealis/pbget/pkg/manifest"
	"github.com/projectborealis/pbget/pkg/registry"
	"github.com/projectborealis/pbget/pkg/report"
)

// Mode selects what SyncPackage does
type Mode int

const (
	// Install purges stale versions, installs and links
	Install Mode = iota
	// Clean purges every version and removes the link
	Clean
)

func (m Mode) String() string {
	if m == Clean {
		return "clean"
	}
	return "install"
}

// Installer is the part of the package tool the syncer needs
type Installer interface {
	Install(ctx context.Context, id, version, outputDir string) (*core.InstallResult, error)
}

// SuffixResolver supplies the engine suffix for fully-qualified versions
type SuffixResolver interface {
	Suffix() (string, error)
}

// Verifier checks an installed payload against its package manifest
type Verifier interface {
	Verify(id, payloadDir string) error
}

// Config configures a Syncer
type Config struct {
	PackagesRoot   string // Directory payloads are installed into
	BinariesFolder string // Subfolder linked from payload to destination
	Workers        int
	Logger         *log.Logger
}

// Syncer runs package synchronization
type Syncer struct {
	config    *Config
	installer Installer
	linker    link.Linker
	suffix    SuffixResolver
	verifier  Verifier
	logger    *log.Logger

	// removeAll deletes a payload directory
	removeAll func(string) error
}

// New creates a Syncer. verifier may be nil.
func New(cfg *Config, installer Installer, linker link.Linker, suffix SuffixResolver, verifier Verifier) *Syncer {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.PackagesRoot == "" {
		cfg.PackagesRoot = "."
	}
	if cfg.BinariesFolder == "" {
		cfg.BinariesFolder = "Binaries"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Syncer{
		config:    cfg,
		installer: installer,
		linker:    linker,
		suffix:    suffix,
		verifier:  verifier,
		logger:    logger.WithPrefix("sync"),
		removeAll: os.RemoveAll,
	}
}

// Run synchronizes every spec in a bounded worker pool and records each
// result in rep. Results come back in spec order. No failure stops the
// other packages; a cancelled context fails the packages not yet started.
func (s *Syncer) Run(ctx context.Context, specs []core.PackageSpec, mode Mode, rep *report.Report) []report.Entry {
	results := make([]report.Entry, len(specs))

	var g errgroup.Group
	g.SetLimit(s.config.Workers)

	for i, spec := range specs {
		i, spec := i, spec // per-iteration copies; go.mod targets go1.21
		g.Go(func() error {
			var entry report.Entry
			if err := ctx.Err(); err != nil {
				entry = report.Entry{Package: spec.ID, Version: spec.Version, Status: report.StatusFailed, Err: err}
			} else {
				entry = s.SyncPackage(ctx, spec, mode)
			}
			results[i] = entry
			if rep != nil {
				rep.Record(entry)
			}
			return nil
		})
	}
	g.Wait()

	return results
}

// SyncPackage brings one package to the state mode asks for
func (s *Syncer) SyncPackage(ctx context.Context, spec core.PackageSpec, mode Mode) report.Entry {
	if err := manifest.Validate(spec, mode == Install); err != nil {
		return report.Entry{Package: spec.ID, Version: spec.Version, Status: report.StatusFailed, Err: err}
	}

	if mode == Clean {
		return s.clean(spec)
	}
	return s.install(ctx, spec)
}

func (s *Syncer) install(ctx context.Context, spec core.PackageSpec) report.Entry {
	entry := report.Entry{Package: spec.ID, Version: spec.Version}
	fail := func(err error) report.Entry {
		entry.Status = report.StatusFailed
		entry.Err = &core.Error{Op: "install", Package: spec.ID, Err: err}
		return entry
	}

	suffix, err := s.suffix.Suffix()
	if err != nil {
		return fail(err)
	}
	version := spec.FullVersion(suffix)
	entry.Version = version

	payload := filepath.Join(s.config.PackagesRoot, core.PayloadName(spec.ID, version))
	target := filepath.Join(payload, s.config.BinariesFolder)
	dest := s.destination(spec)

	if s.satisfied(spec.ID, version, payload, target, dest) {
		s.logger.Debug("already satisfied", "package", spec.ID, "version", version)
		entry.Status = report.StatusSatisfied
		return entry
	}

	if err := s.purge(spec.ID, version); err != nil {
		// Two versions side by side are never left unresolved: skip the
		// install and let the user clear the stale directory.
		entry.Status = report.StatusSkipped
		entry.Warnings = append(entry.Warnings, &core.Error{Op: "purge", Package: spec.ID, Err: err})
		return entry
	}

	// NuGet reports a partial payload as already installed, so it has to go.
	if s.incomplete(spec.ID, payload) {
		s.logger.Warn("reinstalling incomplete payload", "package", spec.ID, "path", payload)
		if err := s.removeAll(payload); err != nil {
			entry.Status = report.StatusSkipped
			entry.Warnings = append(entry.Warnings, &core.Error{Op: "purge", Package: spec.ID,
				Err: fmt.Errorf("%w: cannot remove %s, remove it manually and run again: %v", core.ErrStalePurgeFailed, payload, err)})
			return entry
		}
	}

	res, err := s.installer.Install(ctx, spec.ID, version, s.config.PackagesRoot)
	if err == nil {
		err = installError(res)
	}
	if err != nil {
		s.rollback(dest)
		return fail(err)
	}

	if err := s.linker.ReplaceLink(target, dest); err != nil {
		s.rollback(dest)
		return fail(fmt.Errorf("%w: %v", core.ErrLinkReplacementFailed, err))
	}

	entry.Status = report.StatusInstalled
	if res.Outcome == core.OutcomeAlreadyInstalled {
		entry.Status = report.StatusAlreadyInstalled
	}
	return entry
}

func (s *Syncer) clean(spec core.PackageSpec) report.Entry {
	entry := report.Entry{Package: spec.ID, Version: spec.Version, Status: report.StatusCleaned}

	if err := s.purge(spec.ID, ""); err != nil {
		entry.Warnings = append(entry.Warnings, &core.Error{Op: "clean", Package: spec.ID, Err: err})
	}

	if err := s.linker.RemoveLink(s.destination(spec)); err != nil {
		entry.Status = report.StatusFailed
		entry.Err = &core.Error{Op: "clean", Package: spec.ID, Err: err}
	}
	return entry
}

// satisfied is the idempotency check: payload present and complete, no
// stale siblings, and the link already resolving into the payload
func (s *Syncer) satisfied(id, version, payload, target, dest string) bool {
	if info, err := os.Stat(payload); err != nil || !info.IsDir() {
		return false
	}

	stale, err := s.payloads(id, version)
	if err != nil || len(stale) > 0 {
		return false
	}

	if s.incomplete(id, payload) {
		return false
	}

	ok, err := s.linker.Resolves(dest, target)
	if err != nil {
		s.logger.Debug("checking link", "package", id, "err", err)
		return false
	}
	return ok
}

// incomplete reports whether an existing payload misses files its manifest lists
func (s *Syncer) incomplete(id, payload string) bool {
	if s.verifier == nil {
		return false
	}
	if info, err := os.Stat(payload); err != nil || !info.IsDir() {
		return false
	}
	if err := s.verifier.Verify(id, payload); err != nil {
		s.logger.Debug("installation incomplete", "package", id, "err", err)
		return true
	}
	return false
}

// purge removes every payload directory of id except keep. An empty keep
// removes them all.
func (s *Syncer) purge(id, keep string) error {
	dirs, err := s.payloads(id, keep)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStalePurgeFailed, err)
	}

	var errs []error
	for _, dir := range dirs {
		s.logger.Debug("removing payload", "package", id, "path", dir)
		if err := s.removeAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("%w: cannot remove %s, remove it manually and run again: %v", core.ErrStalePurgeFailed, dir, err))
		}
	}
	return errors.Join(errs...)
}

// payloads lists payload directories of id other than version
func (s *Syncer) payloads(id, version string) ([]string, error) {
	entries, err := os.ReadDir(s.config.PackagesRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	keep := ""
	if version != "" {
		keep = core.PayloadName(id, version)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == keep || !core.IsPayloadOf(e.Name(), id) {
			continue
		}
		dirs = append(dirs, filepath.Join(s.config.PackagesRoot, e.Name()))
	}
	return dirs, nil
}

// rollback removes a link left at dest after a failed install. Real
// directories are never touched here.
func (s *Syncer) rollback(dest string) {
	if err := s.linker.RemoveDanglingLink(dest); err != nil {
		s.logger.Warn("could not remove faulty link", "destination", dest, "err", err)
	}
}

func (s *Syncer) destination(spec core.PackageSpec) string {
	return filepath.Join(spec.Destination, s.config.BinariesFolder)
}

func installError(res *core.InstallResult) error {
	if res.Outcome.Success() {
		return nil
	}
	if res.Outcome == core.OutcomeNotFound {
		return fmt.Errorf("%w: not found in the repository", core.ErrToolReportedFailure)
	}
	return fmt.Errorf("%w (exit code %d), trace log:\n%s", core.ErrToolUnknownOutput, res.ExitCode, res.Output)
}

// RegistryVerifier checks payloads against Nuspec manifests when one exists
type RegistryVerifier struct {
	Registry *registry.Registry
	Logger   *log.Logger
}

// Verify implements Verifier. Packages without a usable nuspec pass: an
// unreadable manifest says nothing about the payload.
func (v RegistryVerifier) Verify(id, payloadDir string) error {
	if v.Registry == nil || !v.Registry.Has(id) {
		return nil
	}
	entry, err := v.Registry.Load(id)
	if err != nil {
		if v.Logger != nil {
			v.Logger.Warn("ignoring unreadable nuspec", "package", id, "err", err)
		}
		return nil
	}
	return entry.Verify(payloadDir)
}
