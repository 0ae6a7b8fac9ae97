// Package project reads version information from the host Unreal project:
// the engine suffix from the .uproject, the project version from
// DefaultGame.ini and plugin versions from .uplugin descriptors.
package project

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/go-ini/ini"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"github.com/projectborealis/pbget/pkg/core"
)

const (
	projectVersionKey = "ProjectVersion"
	pluginVersionKey  = "VersionName"
	unsetVersion      = "0.0.0"
)

// Config locates the project files
type Config struct {
	UProjectPath   string
	VersionKey     string // .uproject key holding the engine association
	SuffixLength   int
	DefaultGameIni string
	PluginsDir     string
	Logger         *log.Logger
}

// Resolver answers version questions about the project. The suffix is read
// once and shared by every caller.
type Resolver struct {
	config *Config
	logger *log.Logger
	suffix func() (string, error)
}

// New creates a Resolver
func New(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.VersionKey == "" {
		cfg.VersionKey = "EngineAssociation"
	}
	if cfg.SuffixLength <= 0 {
		cfg.SuffixLength = 8
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &Resolver{config: cfg, logger: logger}
	r.suffix = sync.OnceValues(r.readSuffix)
	return r
}

// Suffix returns the engine build suffix appended to package versions
func (r *Resolver) Suffix() (string, error) {
	return r.suffix()
}

func (r *Resolver) readSuffix() (string, error) {
	value, err := readJSONString(r.config.UProjectPath, r.config.VersionKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrVersionSuffixUnresolvable, err)
	}

	suffix := value
	if len(suffix) > r.config.SuffixLength {
		suffix = suffix[len(suffix)-r.config.SuffixLength:]
	}
	r.logger.Debug("engine suffix resolved", "association", value, "suffix", suffix)
	return suffix, nil
}

// ProjectVersion returns ProjectVersion from DefaultGame.ini, whichever
// section holds it
func (r *Resolver) ProjectVersion() (string, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:            true,
		SkipUnrecognizableLines: true,
		IgnoreInlineComment:     true,
	}, r.config.DefaultGameIni)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", core.ErrVersionUnresolvable, r.config.DefaultGameIni, err)
	}

	for _, section := range cfg.Sections() {
		if !section.HasKey(projectVersionKey) {
			continue
		}
		version := strings.TrimSpace(section.Key(projectVersionKey).String())
		if version == "" || version == unsetVersion {
			break
		}
		return version, nil
	}

	return "", fmt.Errorf("%w: no %s in %s", core.ErrVersionUnresolvable, projectVersionKey, r.config.DefaultGameIni)
}

// PluginVersion returns VersionName from Plugins/<name>/*.uplugin
func (r *Resolver) PluginVersion(name string) (string, error) {
	pattern := filepath.Join(r.config.PluginsDir, name, "*.uplugin")
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("%w: no descriptor matching %s", core.ErrVersionUnresolvable, pattern)
	}

	version, err := readJSONString(matches[0], pluginVersionKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrVersionUnresolvable, err)
	}
	version = NormalizeVersion(version)
	if version == unsetVersion {
		return "", fmt.Errorf("%w: %s declares %s", core.ErrVersionUnresolvable, matches[0], unsetVersion)
	}
	return version, nil
}

// NormalizeVersion pads two-part versions to three parts so NuGet accepts
// them. Anything else is returned unchanged.
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if strings.Count(v, ".") != 1 {
		return v
	}
	if sv, err := semver.NewVersion(v); err == nil {
		return sv.String()
	}
	return v + ".0"
}

// readJSONString reads a top-level string key from an Unreal JSON
// descriptor. Descriptors may carry comments and trailing commas.
func readJSONString(path, key string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	res := gjson.GetBytes(jsonc.ToJSON(data), key)
	if !res.Exists() {
		return "", fmt.Errorf("%s has no %q", path, key)
	}
	if res.Type != gjson.String || res.String() == "" {
		return "", fmt.Errorf("%s: %q is not a non-empty string", path, key)
	}
	return res.String(), nil
}
