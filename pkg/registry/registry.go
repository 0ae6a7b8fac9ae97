// pkg/registry/registry.go
package registry

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind is the package kind carried in a nuspec's tags
type Kind string

const (
	KindMain    Kind = "Main"
	KindPlugin  Kind = "Plugin"
	KindUnknown Kind = ""
)

const nuspecExt = ".nuspec"

// Entry represents a single Nuspec/<id>.nuspec file
type Entry struct {
	Path     string   `xml:"-"`
	Metadata Metadata `xml:"metadata"`
	Files    []File   `xml:"files>file"`
}

// Metadata is the nuspec <metadata> block
type Metadata struct {
	ID      string `xml:"id"`
	Version string `xml:"version"`
	Tags    string `xml:"tags"`
	Authors string `xml:"authors"`
}

// File is one <file src target/> manifest entry
type File struct {
	Src    string `xml:"src,attr"`
	Target string `xml:"target,attr"`
}

// Kind maps the tags field to a package kind
func (e *Entry) Kind() Kind {
	switch strings.TrimSpace(e.Metadata.Tags) {
	case string(KindMain):
		return KindMain
	case string(KindPlugin):
		return KindPlugin
	default:
		return KindUnknown
	}
}

// InstalledPath is where a manifest file lands inside an installed payload:
// the target when one is given, otherwise the source with its first path
// segment trimmed.
func (f File) InstalledPath() string {
	p := filepath.ToSlash(f.Target)
	if p == "" {
		p = filepath.ToSlash(f.Src)
		if i := strings.Index(p, "/"); i >= 0 {
			p = p[i+1:]
		}
	}
	return filepath.FromSlash(strings.TrimPrefix(p, "/"))
}

// Verify checks that every manifest file exists inside payloadDir. Wildcard
// entries are skipped.
func (e *Entry) Verify(payloadDir string) error {
	for _, f := range e.Files {
		rel := f.InstalledPath()
		if rel == "" || strings.ContainsAny(f.Src+f.Target, "*?") {
			continue
		}
		path := filepath.Join(payloadDir, rel)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("registry: %s is incomplete: %s missing", e.Metadata.ID, rel)
		}
	}
	return nil
}

// Registry provides lookup into the Nuspec folder
type Registry struct {
	nuspecDir string
}

// New creates a Registry pointed at the nuspec directory
func New(nuspecDir string) *Registry {
	return &Registry{
		nuspecDir: nuspecDir,
	}
}

// Dir returns the nuspec directory
func (r *Registry) Dir() string {
	return r.nuspecDir
}

// PathFor returns the nuspec path for id. A trailing ".nuspec" is accepted.
func (r *Registry) PathFor(id string) string {
	id = strings.TrimSuffix(id, nuspecExt)
	return filepath.Join(r.nuspecDir, id+nuspecExt)
}

// Has reports whether a nuspec exists for id
func (r *Registry) Has(id string) bool {
	_, err := os.Stat(r.PathFor(id))
	return err == nil
}

// Load reads and parses Nuspec/<id>.nuspec
func (r *Registry) Load(id string) (*Entry, error) {
	if _, err := os.Stat(r.nuspecDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("registry: nuspec directory %s not found", r.nuspecDir)
	}

	path := r.PathFor(id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: package '%s' not found", strings.TrimSuffix(id, nuspecExt))
	}

	var entry Entry
	if err := xml.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", path, err)
	}
	if entry.Metadata.ID == "" {
		return nil, fmt.Errorf("registry: '%s' has no metadata/id", path)
	}
	entry.Path = path

	return &entry, nil
}

// List returns the ids of every nuspec in the directory, sorted
func (r *Registry) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(r.nuspecDir, "*"+nuspecExt))
	if err != nil {
		return nil, fmt.Errorf("registry: listing %s: %w", r.nuspecDir, err)
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(m), nuspecExt))
	}
	sort.Strings(ids)
	return ids, nil
}
