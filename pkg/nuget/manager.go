// pkg/nuget/manager.go
package nuget

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/projectborealis/pbget/pkg/core"
)

// PackageManager drives NuGet operations and implements core.PackageTool
type PackageManager struct {
	client *Client
	config *Config
	logger *log.Logger
	stdout io.Writer
}

var _ core.PackageTool = (*PackageManager)(nil)

// NewPackageManager creates a NuGet package manager
func NewPackageManager(cfg *Config) *PackageManager {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	pm := &PackageManager{
		client: NewClient(cfg),
		config: cfg,
		logger: logger.WithPrefix("nuget"),
		stdout: os.Stdout,
	}

	if cfg.Debug {
		pm.logger.Debug("initialized NuGet package manager", "path", cfg.Path, "dir", cfg.Dir)
	}

	return pm
}

// SetOutput redirects pass-through output such as "locals"
func (pm *PackageManager) SetOutput(w io.Writer) {
	pm.stdout = w
}

// Install installs id at version into outputDir and classifies the result
func (pm *PackageManager) Install(ctx context.Context, id, version, outputDir string) (*core.InstallResult, error) {
	args := []string{"install", id, "-Version", version, "-NonInteractive"}
	if outputDir != "" {
		args = append(args, "-OutputDirectory", outputDir)
	}

	res, err := pm.client.Run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("installing %s %s: %w", id, version, err)
	}

	outcome := ClassifyInstall(res.Output, res.ExitCode)
	pm.logger.Debug("install classified", "package", id, "version", version, "outcome", outcome, "exit", res.ExitCode)

	return &core.InstallResult{
		Outcome:  outcome,
		ExitCode: res.ExitCode,
		Output:   res.Output,
	}, nil
}

// Pack builds a .nupkg from nuspecPath and returns the artifact path. The
// tool names the artifact after the nuspec's metadata id, not its file name.
func (pm *PackageManager) Pack(ctx context.Context, id, nuspecPath, version, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = "."
	}
	args := []string{"pack", nuspecPath, "-Version", version, "-NoPackageAnalysis", "-NonInteractive", "-OutputDirectory", outputDir}

	res, err := pm.client.Run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("packing %s: %w", nuspecPath, err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("packing %s: %w: exit code %d\n%s", nuspecPath, core.ErrToolReportedFailure, res.ExitCode, res.Output)
	}

	artifact := filepath.Join(outputDir, ArtifactName(id, version))
	if pm.config.Dir != "" && !filepath.IsAbs(artifact) {
		artifact = filepath.Join(pm.config.Dir, artifact)
	}
	if _, err := os.Stat(artifact); err != nil {
		return "", fmt.Errorf("packing %s: %w: expected %s", nuspecPath, core.ErrInvalidArtifact, artifact)
	}

	return artifact, nil
}

// Push publishes a packed artifact
func (pm *PackageManager) Push(ctx context.Context, artifact string, opts *core.PushOptions) error {
	if opts == nil || opts.Source == "" {
		return fmt.Errorf("push source is required")
	}

	args := []string{"push"}
	if opts.Timeout > 0 {
		args = append(args, "-Timeout", strconv.Itoa(int(opts.Timeout.Seconds())))
	}
	args = append(args, "-Source", opts.Source)
	if opts.APIKey != "" {
		args = append(args, "-ApiKey", opts.APIKey)
	}
	args = append(args, "-NonInteractive", artifact)

	res, err := pm.client.Run(ctx, args...)
	if err != nil {
		return fmt.Errorf("pushing %s: %w", filepath.Base(artifact), err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("pushing %s: %w: exit code %d\n%s", filepath.Base(artifact), core.ErrToolReportedFailure, res.ExitCode, res.Output)
	}
	return nil
}

// Locals lists or clears every local NuGet cache, streaming the tool output
func (pm *PackageManager) Locals(ctx context.Context, clear bool) error {
	mode := "-list"
	if clear {
		mode = "-clear"
	}

	res, err := pm.client.RunPassthrough(ctx, pm.stdout, "locals", "all", mode)
	if err != nil {
		return fmt.Errorf("locals: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("locals: %w: exit code %d", core.ErrToolReportedFailure, res.ExitCode)
	}
	return nil
}

// AddSource registers a package source under name
func (pm *PackageManager) AddSource(ctx context.Context, name, url string) (SourceOutcome, error) {
	res, err := pm.client.Run(ctx, "sources", "Add", "-Name", name, "-Source", url, "-NonInteractive")
	if err != nil {
		return SourceUnknown, fmt.Errorf("adding source %s: %w", name, err)
	}

	outcome := ClassifySourceAdd(res.Output, res.ExitCode)
	if outcome == SourceUnknown {
		return outcome, fmt.Errorf("adding source %s (%s): %w\n%s", name, url, core.ErrToolUnknownOutput, res.Output)
	}
	return outcome, nil
}

// SetAPIKey stores key for source in the tool's configuration
func (pm *PackageManager) SetAPIKey(ctx context.Context, key, source string) error {
	res, err := pm.client.Run(ctx, "setapikey", key, "-Source", source, "-NonInteractive")
	if err != nil {
		return fmt.Errorf("setting api key for %s: %w", source, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("setting api key for %s: %w: exit code %d", source, core.ErrToolReportedFailure, res.ExitCode)
	}
	return nil
}
