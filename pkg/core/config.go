// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no path is given
const DefaultConfigFile = "pbget.yaml"

// Config holds pbget configuration
type Config struct {
	NuGetPath          string       `yaml:"nuget_path" toml:"nuget_path"`
	PackagesFile       string       `yaml:"packages_file" toml:"packages_file"`
	PackagesRoot       string       `yaml:"packages_root" toml:"packages_root"`
	NuspecDir          string       `yaml:"nuspec_dir" toml:"nuspec_dir"`
	ArtifactDir        string       `yaml:"artifact_dir" toml:"artifact_dir"`
	BinariesFolder     string       `yaml:"binaries_folder" toml:"binaries_folder"`
	UProjectPath       string       `yaml:"uproject_path" toml:"uproject_path"`
	UProjectVersionKey string       `yaml:"uproject_version_key" toml:"uproject_version_key"`
	SuffixLength       int          `yaml:"suffix_length" toml:"suffix_length"`
	DefaultGameIni     string       `yaml:"default_game_ini" toml:"default_game_ini"`
	PluginsDir         string       `yaml:"plugins_dir" toml:"plugins_dir"`
	PushSource         string       `yaml:"push_source" toml:"push_source"`
	PushAPIKey         string       `yaml:"push_api_key" toml:"push_api_key"`
	PushTimeout        int          `yaml:"push_timeout" toml:"push_timeout"` // seconds
	Source             SourceConfig `yaml:"source" toml:"source"`
	BlockingProcesses  []string     `yaml:"blocking_processes" toml:"blocking_processes"`
	Workers            int          `yaml:"workers" toml:"workers"`
	Debug              bool         `yaml:"debug" toml:"debug"`
}

// SourceConfig describes a feed registered with the tool before pulling
type SourceConfig struct {
	Name   string `yaml:"name" toml:"name"`
	URL    string `yaml:"url" toml:"url"`
	APIKey string `yaml:"api_key" toml:"api_key"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// PushTimeoutDuration returns the push timeout as a duration
func (c *Config) PushTimeoutDuration() time.Duration {
	return time.Duration(c.PushTimeout) * time.Second
}

// LoadConfig loads configuration from file. A .toml extension selects the
// TOML decoder, anything else is read as YAML.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// SaveConfig saves configuration to file as YAML
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.NuGetPath == "" {
		c.NuGetPath = getDefaultNuGetPath()
	}
	if key := os.Getenv("PBGET_API_KEY"); key != "" && c.PushAPIKey == "" {
		c.PushAPIKey = key
	}
	if c.PackagesFile == "" {
		c.PackagesFile = "PBGet.packages"
	}
	if c.PackagesRoot == "" {
		c.PackagesRoot = "."
	}
	if c.NuspecDir == "" {
		c.NuspecDir = "Nuspec"
	}
	if c.ArtifactDir == "" {
		c.ArtifactDir = "."
	}
	if c.BinariesFolder == "" {
		c.BinariesFolder = "Binaries"
	}
	if c.UProjectPath == "" {
		c.UProjectPath = filepath.Join("..", "ProjectBorealis.uproject")
	}
	if c.UProjectVersionKey == "" {
		c.UProjectVersionKey = "EngineAssociation"
	}
	if c.SuffixLength <= 0 {
		c.SuffixLength = 8
	}
	if c.DefaultGameIni == "" {
		c.DefaultGameIni = filepath.Join("..", "Config", "DefaultGame.ini")
	}
	if c.PluginsDir == "" {
		c.PluginsDir = filepath.Join("..", "Plugins")
	}
	if c.PushSource == "" {
		c.PushSource = "https://api.nuget.org/v3/index.json"
	}
	if c.PushTimeout <= 0 {
		c.PushTimeout = 3600
	}
	if c.BlockingProcesses == nil {
		c.BlockingProcesses = []string{"UE4Editor.exe", "UnrealEditor.exe"}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

func getDefaultNuGetPath() string {
	if path := os.Getenv("PBGET_NUGET_PATH"); path != "" {
		return path
	}
	if runtime.GOOS == "windows" {
		return "nuget.exe"
	}
	return "nuget"
}
