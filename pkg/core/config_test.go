package core_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectborealis/pbget/pkg/core"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("PBGET_NUGET_PATH", "")
	t.Setenv("PBGET_API_KEY", "")

	cfg := core.DefaultConfig()
	assert.Equal(t, "PBGet.packages", cfg.PackagesFile)
	assert.Equal(t, "Binaries", cfg.BinariesFolder)
	assert.Equal(t, "EngineAssociation", cfg.UProjectVersionKey)
	assert.Equal(t, 8, cfg.SuffixLength)
	assert.Equal(t, time.Hour, cfg.PushTimeoutDuration())
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Contains(t, cfg.BlockingProcesses, "UnrealEditor.exe")
	assert.Empty(t, cfg.PushAPIKey)
	if runtime.GOOS == "windows" {
		assert.Equal(t, "nuget.exe", cfg.NuGetPath)
	} else {
		assert.Equal(t, "nuget", cfg.NuGetPath)
	}
}

func TestDefaultConfigEnvironment(t *testing.T) {
	t.Setenv("PBGET_NUGET_PATH", "/opt/nuget/nuget.exe")
	t.Setenv("PBGET_API_KEY", "from-env")

	cfg := core.DefaultConfig()
	assert.Equal(t, "/opt/nuget/nuget.exe", cfg.NuGetPath)
	assert.Equal(t, "from-env", cfg.PushAPIKey)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PBGET_API_KEY", "from-env")

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pbget.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
nuget_path: tools/nuget.exe
packages_root: Packages
push_api_key: from-file
push_timeout: 60
workers: 3
source:
  name: borealis
  url: https://feed.example/v3/index.json
blocking_processes:
  - UE4Editor.exe
`), 0644))

		cfg, err := core.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "tools/nuget.exe", cfg.NuGetPath)
		assert.Equal(t, "Packages", cfg.PackagesRoot)
		assert.Equal(t, "from-file", cfg.PushAPIKey)
		assert.Equal(t, time.Minute, cfg.PushTimeoutDuration())
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, "borealis", cfg.Source.Name)
		assert.Equal(t, []string{"UE4Editor.exe"}, cfg.BlockingProcesses)
		// unset keys fall back to defaults
		assert.Equal(t, "PBGet.packages", cfg.PackagesFile)
	})

	t.Run("toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pbget.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
nuget_path = "nuget.exe"
nuspec_dir = "Specs"
suffix_length = 6

[source]
url = "https://feed.example/v3/index.json"
api_key = "k"
`), 0644))

		cfg, err := core.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "Specs", cfg.NuspecDir)
		assert.Equal(t, 6, cfg.SuffixLength)
		assert.Equal(t, "k", cfg.Source.APIKey)
		assert.Equal(t, "from-env", cfg.PushAPIKey)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := core.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pbget.yaml")
		require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2"), 0644))

		_, err := core.LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "pbget.yaml")
	cfg := core.DefaultConfig()
	cfg.PackagesRoot = "Packages"
	cfg.Source.URL = "https://feed.example/v3/index.json"

	require.NoError(t, core.SaveConfig(cfg, path))

	loaded, err := core.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
