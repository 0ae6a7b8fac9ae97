package platform

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	p := Detect(filepath.Join(t.TempDir(), "missing-nuget"))
	assert.Equal(t, runtime.GOOS, p.OS)
	assert.Equal(t, runtime.GOARCH, p.Arch)
	assert.Empty(t, p.NuGet)
	assert.Contains(t, p.String(), "nuget: not found")

	if runtime.GOOS == "windows" {
		assert.Equal(t, "junction", p.LinkKind)
		return
	}
	assert.Equal(t, "symlink", p.LinkKind)

	exe := filepath.Join(t.TempDir(), "nuget")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))
	p = Detect(exe)
	assert.Equal(t, exe, p.NuGet)
}

func TestProcessKey(t *testing.T) {
	assert.Equal(t, "ue4editor", processKey("UE4Editor.exe"))
	assert.Equal(t, "ue4editor", processKey("ue4editor"))
	assert.Equal(t, "unrealeditor", processKey("UnrealEditor.EXE"))
}

func TestMatchRunning(t *testing.T) {
	running := map[string]bool{"ue4editor": true, "bash": true}

	found := matchRunning([]string{"UnrealEditor.exe", "UE4Editor.exe", "UE4Editor"}, running)
	assert.Equal(t, []string{"UE4Editor.exe"}, found)
	assert.Empty(t, matchRunning([]string{"UnrealEditor.exe"}, running))
}

func TestRunningProcesses(t *testing.T) {
	found, err := RunningProcesses(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = RunningProcesses(context.Background(), []string{"definitely-not-running-pbget-editor.exe"})
	require.NoError(t, err)
	assert.Empty(t, found)
}
