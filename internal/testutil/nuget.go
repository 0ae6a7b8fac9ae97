// Package testutil provides test helpers shared across pbget packages.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// fakeNuGetScript imitates the parts of nuget.exe pbget relies on. Packed
// artifacts are named after the nuspec's <id>, as nuget.exe does. Package
// ids starting with "Missing" are not found, ids starting with "Weird"
// produce unrecognized output, pushes of ids starting with "Broken" fail.
const fakeNuGetScript = `#!/bin/sh
here="$(cd "$(dirname "$0")" && pwd)"
echo "$@" >> "$here/calls.log"
cmd="$1"
case "$cmd" in
install)
  id="$2"; version="$4"; out="."
  while [ $# -gt 0 ]; do
    if [ "$1" = "-OutputDirectory" ]; then out="$2"; fi
    shift
  done
  case "$id" in
    Missing*) echo "Package '$id $version' is not found in the following primary source(s): 'https://feed'."; exit 1;;
    Weird*) echo "The remote server returned an error: (500)."; exit 0;;
  esac
  if [ -d "$out/$id.$version" ]; then
    echo "Package \"$id.$version\" is already installed."
    exit 0
  fi
  mkdir -p "$out/$id.$version/Binaries"
  echo "$version" > "$out/$id.$version/Binaries/$id.dll"
  echo "Successfully installed '$id $version' to $out"
  ;;
pack)
  nuspec="$2"; version="$4"; out="."
  while [ $# -gt 0 ]; do
    if [ "$1" = "-OutputDirectory" ]; then out="$2"; fi
    shift
  done
  id="$(sed -n 's:.*<id>\(.*\)</id>.*:\1:p' "$nuspec" 2>/dev/null | head -n 1)"
  [ -n "$id" ] || id="$(basename "$nuspec" .nuspec)"
  cp "$here/$id.fixture.nupkg" "$out/$id.$version.nupkg" || exit 1
  echo "Successfully created package '$out/$id.$version.nupkg'."
  ;;
push)
  case "$*" in
    *Broken*) echo "Response status code does not indicate success: 409 (Conflict)."; exit 1;;
  esac
  echo "Your package was pushed."
  ;;
locals)
  echo "http-cache: /tmp/nuget/v3-cache"
  echo "global-packages: /tmp/nuget/packages"
  ;;
sources)
  if [ -f "$here/source.added" ]; then
    echo "The name specified has already been added to the list of available package sources. Please provide a unique name."
    exit 1
  fi
  touch "$here/source.added"
  echo "Package source with Name: $4 added successfully."
  ;;
setapikey)
  echo "The API Key was saved for $4."
  ;;
*)
  echo "Unknown command: '$cmd'"
  exit 1
  ;;
esac
`

// FakeNuGet writes a shell stand-in for nuget.exe into a temp dir and
// returns its path. Tests using it are skipped on Windows.
func FakeNuGet(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake nuget is a shell script")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "nuget")
	require.NoError(t, os.WriteFile(path, []byte(fakeNuGetScript), 0755))
	return path
}

// Calls returns the argument lines the fake tool has received
func Calls(t *testing.T, fakePath string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(fakePath), "calls.log"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// AddPackFixture makes the fake tool's "pack" produce a nupkg for id. When
// withManifest is false the archive lacks <id>.nuspec.
func AddPackFixture(t *testing.T, fakePath, id string, withManifest bool) {
	t.Helper()
	WriteNupkg(t, filepath.Join(filepath.Dir(fakePath), id+".fixture.nupkg"), id, withManifest)
}

// WriteNupkg writes a minimal package archive
func WriteNupkg(t *testing.T, path, id string, withManifest bool) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	entries := [][2]string{
		{"[Content_Types].xml", "<Types/>"},
		{"_rels/.rels", "<Relationships/>"},
		{"Binaries/Win64/" + id + ".dll", "binary"},
		{"Binaries/Win64/" + id + ".pdb", "symbols"},
	}
	if withManifest {
		entries = append(entries, [2]string{id + ".nuspec", "<package/>"})
	}
	for _, entry := range entries {
		w, err := zw.Create(entry[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(entry[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}
