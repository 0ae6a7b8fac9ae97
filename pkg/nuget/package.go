// pkg/nuget/package.go
package nuget

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

// InspectPackage opens a .nupkg (a ZIP archive) and lists its entries
func InspectPackage(nupkgPath string) (*Artifact, error) {
	info, err := os.Stat(nupkgPath)
	if err != nil {
		return nil, fmt.Errorf("inspecting package: %w", err)
	}

	reader, err := zip.OpenReader(nupkgPath)
	if err != nil {
		return nil, fmt.Errorf("opening nupkg: %w", err)
	}
	defer reader.Close()

	a := &Artifact{
		Path:    nupkgPath,
		Entries: make([]string, 0, len(reader.File)),
		Size:    info.Size(),
	}
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		a.Entries = append(a.Entries, file.Name)
	}
	return a, nil
}

// HasManifest reports whether the artifact carries <id>.nuspec at its root
func (a *Artifact) HasManifest(id string) bool {
	want := id + MetadataExt
	for _, name := range a.Entries {
		if path.Dir(name) == "." && strings.EqualFold(name, want) {
			return true
		}
	}
	return false
}

// PayloadFiles returns the entries that are not NuGet packaging metadata
func (a *Artifact) PayloadFiles() []string {
	var files []string
	for _, name := range a.Entries {
		switch {
		case strings.HasSuffix(name, MetadataExt) && path.Dir(name) == ".":
		case name == "[Content_Types].xml":
		case strings.HasPrefix(name, "_rels/"), strings.HasPrefix(name, "package/"):
		default:
			files = append(files, name)
		}
	}
	return files
}
