// pkg/manifest/manifest.go
package manifest

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/projectborealis/pbget/pkg/core"
)

// packagesDocument is the root of a packages file. The root element name is
// not checked; only its <package> children matter.
type packagesDocument struct {
	Packages []packageElement `xml:"package"`
}

type packageElement struct {
	ID          string `xml:"id,attr"`
	Version     string `xml:"version,attr"`
	Destination string `xml:"destination,attr"`
}

// Manifest is a loaded packages file
type Manifest struct {
	Path     string
	Packages []core.PackageSpec
}

// Load reads and parses a packages file
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening packages file: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse decodes a packages document. Attributes are not validated here so
// that a bad element only costs that element; see Validate.
func Parse(r io.Reader) (*Manifest, error) {
	var doc packagesDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding packages: %w", err)
	}

	m := &Manifest{Packages: make([]core.PackageSpec, 0, len(doc.Packages))}
	for _, p := range doc.Packages {
		m.Packages = append(m.Packages, core.PackageSpec{
			ID:          p.ID,
			Version:     p.Version,
			Destination: p.Destination,
		})
	}
	return m, nil
}

// Validate checks the attributes a spec needs. Cleaning does not need a
// version, installing does.
func Validate(spec core.PackageSpec, requireVersion bool) error {
	if spec.ID == "" {
		return &core.Error{Op: "validate", Err: fmt.Errorf("%w: id", core.ErrConfigAttributeMissing)}
	}
	if requireVersion && spec.Version == "" {
		return &core.Error{Op: "validate", Package: spec.ID, Err: fmt.Errorf("%w: version", core.ErrConfigAttributeMissing)}
	}
	if spec.Destination == "" {
		return &core.Error{Op: "validate", Package: spec.ID, Err: fmt.Errorf("%w: destination", core.ErrConfigAttributeMissing)}
	}
	return nil
}

// Duplicates returns the indexes of entries whose id already appeared
// earlier in the file
func (m *Manifest) Duplicates() map[int]bool {
	seen := make(map[string]bool, len(m.Packages))
	dups := make(map[int]bool)
	for i, p := range m.Packages {
		if p.ID == "" {
			continue
		}
		if seen[p.ID] {
			dups[i] = true
			continue
		}
		seen[p.ID] = true
	}
	return dups
}
