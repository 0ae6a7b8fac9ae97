// pbget.go
package pbget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/projectborealis/pbget/pkg/core"
	"github.com/projectborealis/pbget/pkg/link"
	"github.com/projectborealis/pbget/pkg/manifest"
	"github.com/projectborealis/pbget/pkg/nuget"
	"github.com/projectborealis/pbget/pkg/platform"
	"github.com/projectborealis/pbget/pkg/project"
	"github.com/projectborealis/pbget/pkg/registry"
	"github.com/projectborealis/pbget/pkg/report"
	"github.com/projectborealis/pbget/pkg/syncer"
)

// Re-export core types for convenience
type (
	Config       = core.Config
	SourceConfig = core.SourceConfig
	PackageSpec  = core.PackageSpec
	// NuspecEntry is a parsed Nuspec/<id>.nuspec file
	NuspecEntry = registry.Entry
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Options tune a Manager beyond the configuration file
type Options struct {
	Out    io.Writer   // Status table and pass-through tool output, os.Stdout when nil
	Logger *log.Logger // Diagnostics, discarded when nil
	Force  bool        // Run even while an editor is open
}

// Manager runs pbget commands against one project
type Manager struct {
	config   *core.Config
	tool     *nuget.PackageManager
	linker   *link.Manager
	project  *project.Resolver
	registry *registry.Registry
	syncer   *syncer.Syncer
	logger   *log.Logger
	out      io.Writer
	force    bool

	// running lists blocking processes that are alive
	running func(ctx context.Context, names []string) ([]string, error)
}

// NewManager creates a Manager. It fails when the NuGet executable cannot
// be found.
func NewManager(config *core.Config, opts *Options) (*Manager, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	if opts == nil {
		opts = &Options{}
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	nugetPath, err := nuget.Detect(config.NuGetPath)
	if err != nil {
		return nil, &Error{Op: "init", Err: fmt.Errorf("%w: %v", ErrToolNotAvailable, err)}
	}

	tool := nuget.NewPackageManager(&nuget.Config{
		Path:   nugetPath,
		Debug:  config.Debug,
		Logger: logger,
	})
	tool.SetOutput(out)

	linker := link.New(logger.WithPrefix("link"))

	proj := project.New(&project.Config{
		UProjectPath:   config.UProjectPath,
		VersionKey:     config.UProjectVersionKey,
		SuffixLength:   config.SuffixLength,
		DefaultGameIni: config.DefaultGameIni,
		PluginsDir:     config.PluginsDir,
		Logger:         logger.WithPrefix("project"),
	})

	reg := registry.New(config.NuspecDir)

	engine := syncer.New(&syncer.Config{
		PackagesRoot:   config.PackagesRoot,
		BinariesFolder: config.BinariesFolder,
		Workers:        config.Workers,
		Logger:         logger,
	}, tool, linker, proj, syncer.RegistryVerifier{Registry: reg, Logger: logger})

	return &Manager{
		config:   config,
		tool:     tool,
		linker:   linker,
		project:  proj,
		registry: reg,
		syncer:   engine,
		logger:   logger,
		out:      out,
		force:    opts.Force,
		running:  platform.RunningProcesses,
	}, nil
}

// Platform describes the host and the NuGet executable in use
func (m *Manager) Platform() *platform.Platform {
	return platform.Detect(m.config.NuGetPath)
}

// Pull installs every package in the packages file and links it into place
func (m *Manager) Pull(ctx context.Context) (*report.Report, error) {
	if err := m.checkEditor(ctx); err != nil {
		return nil, err
	}

	rep := report.New(m.out)

	if m.config.Source.URL != "" {
		if err := m.registerSource(ctx); err != nil {
			rep.Warn(err)
		}
	}

	specs, rejected, err := m.loadPackages()
	if err != nil {
		return nil, err
	}

	rep.Info(fmt.Sprintf("Fetching %d package(s) with %s...", len(specs), filepath.Base(m.config.NuGetPath)))
	rep.Header()
	for _, e := range rejected {
		rep.Record(e)
	}
	m.syncer.Run(ctx, specs, syncer.Install, rep)
	rep.Finish("pull")

	return rep, ctx.Err()
}

// Clean removes installed payloads and destination links for every
// package in the packages file
func (m *Manager) Clean(ctx context.Context) (*report.Report, error) {
	if err := m.checkEditor(ctx); err != nil {
		return nil, err
	}

	specs, rejected, err := m.loadPackages()
	if err != nil {
		return nil, err
	}

	rep := report.New(m.out)
	rep.Header()
	for _, e := range rejected {
		rep.Record(e)
	}
	m.syncer.Run(ctx, specs, syncer.Clean, rep)
	rep.Finish("clean")

	return rep, ctx.Err()
}

// Push packs and publishes every nuspec, or only name when it is set.
// Packages are handled one at a time. A cancelled context removes every
// artifact left in the artifact directory.
func (m *Manager) Push(ctx context.Context, name string) (*report.Report, error) {
	ids, err := m.pushTargets(name)
	if err != nil {
		return nil, err
	}

	rep := report.New(m.out)
	rep.Header()

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		rep.Record(m.pushPackage(ctx, id))
	}

	if err := ctx.Err(); err != nil {
		if cerr := CleanupArtifacts(m.config.ArtifactDir); cerr != nil {
			m.logger.Warn("removing artifacts after interrupt", "err", cerr)
		}
		rep.Finish("push")
		return rep, err
	}

	rep.Finish("push")
	return rep, nil
}

// ResetCache lists the local NuGet caches, or clears them
func (m *Manager) ResetCache(ctx context.Context, clear bool) error {
	if err := m.tool.Locals(ctx, clear); err != nil {
		return &Error{Op: "resetcache", Err: err}
	}
	return nil
}

// Nuspec returns the parsed nuspec of a publishable package
func (m *Manager) Nuspec(id string) (*NuspecEntry, error) {
	return m.registry.Load(strings.TrimSuffix(id, ".nuspec"))
}

// Nuspecs returns every parseable nuspec, sorted by id. Broken files are
// logged and left out.
func (m *Manager) Nuspecs() ([]*NuspecEntry, error) {
	ids, err := m.registry.List()
	if err != nil {
		return nil, err
	}

	entries := make([]*NuspecEntry, 0, len(ids))
	for _, id := range ids {
		e, err := m.registry.Load(id)
		if err != nil {
			m.logger.Warn("skipping nuspec", "package", id, "err", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (m *Manager) pushTargets(name string) ([]string, error) {
	if name != "" {
		id := strings.TrimSuffix(name, ".nuspec")
		if !m.registry.Has(id) {
			return nil, &Error{Op: "push", Package: id, Err: fmt.Errorf("%w: no %s", ErrPackageNotFound, m.registry.PathFor(id))}
		}
		return []string{id}, nil
	}

	ids, err := m.registry.List()
	if err != nil {
		return nil, &Error{Op: "push", Err: err}
	}
	if len(ids) == 0 {
		return nil, &Error{Op: "push", Err: fmt.Errorf("%w: no nuspec files in %s", ErrPackageNotFound, m.registry.Dir())}
	}
	return ids, nil
}

func (m *Manager) pushPackage(ctx context.Context, file string) report.Entry {
	entry := report.Entry{Package: file}
	fail := func(err error) report.Entry {
		entry.Status = report.StatusFailed
		entry.Err = &Error{Op: "push", Package: entry.Package, Err: err}
		return entry
	}
	skip := func(err error) report.Entry {
		entry.Status = report.StatusSkipped
		entry.Warnings = append(entry.Warnings, &Error{Op: "push", Package: entry.Package, Err: err})
		return entry
	}

	nuspec, err := m.registry.Load(file)
	if err != nil {
		return fail(err)
	}
	// The package id is metadata/id; the file name is only where it lives.
	id := nuspec.Metadata.ID
	entry.Package = id

	var version string
	switch nuspec.Kind() {
	case registry.KindMain:
		version, err = m.project.ProjectVersion()
	case registry.KindPlugin:
		version, err = m.project.PluginVersion(id)
	default:
		return skip(fmt.Errorf("%w: tags %q, expected %s or %s", ErrUnknownPackageKind, nuspec.Metadata.Tags, registry.KindMain, registry.KindPlugin))
	}
	if err != nil {
		return skip(err)
	}

	suffix, err := m.project.Suffix()
	if err != nil {
		return fail(err)
	}
	version = version + "-" + suffix
	entry.Version = version

	artifact, err := m.tool.Pack(ctx, id, m.registry.PathFor(file), version, m.config.ArtifactDir)
	if err != nil {
		return fail(err)
	}

	if err := m.publish(ctx, id, artifact); err != nil {
		m.removeArtifact(artifact)
		return fail(err)
	}

	if err := os.Remove(artifact); err != nil {
		entry.Warnings = append(entry.Warnings, &Error{Op: "push", Package: id,
			Err: fmt.Errorf("%w: removing %s: %v", ErrCleanupNonFatal, artifact, err)})
	}

	entry.Status = report.StatusPushed
	return entry
}

// publish checks the artifact carries its manifest and pushes it
func (m *Manager) publish(ctx context.Context, id, artifact string) error {
	art, err := nuget.InspectPackage(artifact)
	if err != nil {
		return err
	}
	if !art.HasManifest(id) {
		return fmt.Errorf("%w: %s has no %s.nuspec", ErrInvalidArtifact, artifact, id)
	}
	m.logger.Debug("artifact packed", "package", id, "path", artifact, "size", art.Size, "files", len(art.PayloadFiles()))

	return m.tool.Push(ctx, artifact, &core.PushOptions{
		Source:  m.config.PushSource,
		APIKey:  m.config.PushAPIKey,
		Timeout: m.config.PushTimeoutDuration(),
	})
}

func (m *Manager) removeArtifact(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		m.logger.Warn("removing artifact", "path", path, "err", err)
	}
}

// registerSource adds the configured feed to the tool, with its API key
// when this call registered it
func (m *Manager) registerSource(ctx context.Context) error {
	src := m.config.Source
	name := src.Name
	if name == "" {
		name = "pbget"
	}

	outcome, err := m.tool.AddSource(ctx, name, src.URL)
	if err != nil {
		return &Error{Op: "source", Err: err}
	}

	switch outcome {
	case nuget.SourceExists:
		m.logger.Debug("package source already registered", "name", name)
	case nuget.SourceAdded:
		m.logger.Info("package source registered", "name", name, "url", src.URL)
		if src.APIKey != "" {
			if err := m.tool.SetAPIKey(ctx, src.APIKey, src.URL); err != nil {
				return &Error{Op: "source", Err: err}
			}
		}
	}
	return nil
}

// checkEditor refuses to touch linked binaries while an editor holds them
func (m *Manager) checkEditor(ctx context.Context) error {
	if m.force || len(m.config.BlockingProcesses) == 0 {
		return nil
	}

	running, err := m.running(ctx, m.config.BlockingProcesses)
	if err != nil {
		m.logger.Warn("could not check for running editors", "err", err)
		return nil
	}
	if len(running) > 0 {
		return &Error{Op: "check", Err: fmt.Errorf("%w: close %s first or pass --force", ErrEditorRunning, strings.Join(running, ", "))}
	}
	return nil
}

// loadPackages reads the packages file. Later entries repeating an id are
// returned as rejected results; attribute checks happen per package in
// the syncer.
func (m *Manager) loadPackages() ([]core.PackageSpec, []report.Entry, error) {
	mf, err := manifest.Load(m.config.PackagesFile)
	if err != nil {
		return nil, nil, &Error{Op: "load", Err: err}
	}

	dups := mf.Duplicates()
	specs := make([]core.PackageSpec, 0, len(mf.Packages))
	var rejected []report.Entry
	for i, spec := range mf.Packages {
		if dups[i] {
			rejected = append(rejected, report.Entry{
				Package: spec.ID,
				Version: spec.Version,
				Status:  report.StatusFailed,
				Err:     &Error{Op: "load", Package: spec.ID, Err: fmt.Errorf("%w in %s", ErrDuplicatePackage, mf.Path)},
			})
			continue
		}
		specs = append(specs, spec)
	}
	return specs, rejected, nil
}

// CleanupArtifacts removes every packed artifact in dir
func CleanupArtifacts(dir string) error {
	if dir == "" {
		dir = "."
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*"+nuget.PackageExt))
	if err != nil {
		return err
	}

	var errs []error
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("%w: %v", ErrCleanupNonFatal, err))
		}
	}
	return errors.Join(errs...)
}
