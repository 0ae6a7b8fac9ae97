package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectborealis/pbget/pkg/registry"
)

const coreNuspec = `<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd">
  <metadata>
    <id>PBCore</id>
    <version>$version$</version>
    <authors>Project Borealis</authors>
    <tags>Main</tags>
  </metadata>
  <files>
    <file src="../Binaries/Win64/PBCore.dll" target="Binaries/Win64/PBCore.dll" />
    <file src="Plugin/Binaries/Win64/PBCore.pdb" />
    <file src="../Binaries/Win64/*.modules" target="Binaries/Win64" />
  </files>
</package>`

func writeNuspec(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".nuspec"), []byte(body), 0644))
}

func TestLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Nuspec")
	writeNuspec(t, dir, "PBCore", coreNuspec)
	r := registry.New(dir)

	entry, err := r.Load("PBCore")
	require.NoError(t, err)
	assert.Equal(t, "PBCore", entry.Metadata.ID)
	assert.Equal(t, registry.KindMain, entry.Kind())
	assert.Len(t, entry.Files, 3)
	assert.Equal(t, filepath.Join(dir, "PBCore.nuspec"), entry.Path)

	_, err = r.Load("PBCore.nuspec")
	assert.NoError(t, err)

	_, err = r.Load("Nope")
	assert.ErrorContains(t, err, "not found")

	_, err = registry.New(filepath.Join(t.TempDir(), "absent")).Load("PBCore")
	assert.ErrorContains(t, err, "directory")
}

func TestLoadRejectsMissingID(t *testing.T) {
	dir := t.TempDir()
	writeNuspec(t, dir, "Blank", `<package><metadata><tags>Main</tags></metadata></package>`)

	_, err := registry.New(dir).Load("Blank")
	assert.Error(t, err)
}

func TestKind(t *testing.T) {
	tests := map[string]registry.Kind{
		"Main":      registry.KindMain,
		" Plugin ":  registry.KindPlugin,
		"Tool":      registry.KindUnknown,
		"":          registry.KindUnknown,
		"Main Tool": registry.KindUnknown,
	}
	for tags, want := range tests {
		e := &registry.Entry{Metadata: registry.Metadata{Tags: tags}}
		assert.Equal(t, want, e.Kind(), "tags %q", tags)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeNuspec(t, dir, "PBCore", coreNuspec)
	writeNuspec(t, dir, "PBAudio", coreNuspec)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0644))
	r := registry.New(dir)

	ids, err := r.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"PBAudio", "PBCore"}, ids)
	assert.True(t, r.Has("PBAudio"))
	assert.False(t, r.Has("README"))
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	writeNuspec(t, dir, "PBCore", coreNuspec)
	entry, err := registry.New(dir).Load("PBCore")
	require.NoError(t, err)

	payload := filepath.Join(t.TempDir(), "PBCore.1.0.0-abcdef12")
	require.NoError(t, os.MkdirAll(filepath.Join(payload, "Binaries", "Win64"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(payload, "Binaries", "Win64", "PBCore.dll"), nil, 0644))

	assert.ErrorContains(t, entry.Verify(payload), "PBCore.pdb")

	require.NoError(t, os.MkdirAll(filepath.Join(payload, "Binaries", "Win64"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(payload, "Binaries", "Win64", "PBCore.pdb"), nil, 0644))
	assert.NoError(t, entry.Verify(payload))
}

func TestInstalledPath(t *testing.T) {
	assert.Equal(t, filepath.Join("Binaries", "a.dll"), registry.File{Src: "x/y.dll", Target: "Binaries/a.dll"}.InstalledPath())
	assert.Equal(t, filepath.Join("Binaries", "Win64", "b.dll"), registry.File{Src: "Plugin/Binaries/Win64/b.dll"}.InstalledPath())
	assert.Equal(t, "c.dll", registry.File{Src: "c.dll"}.InstalledPath())
}
