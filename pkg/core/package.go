// pkg/core/package.go
package core

import "strings"

// PackageSpec is one requested binary package from the packages file
type PackageSpec struct {
	ID          string // Package id, unique per packages file
	Version     string // Declared version, without the engine suffix
	Destination string // Directory that receives the Binaries link
}

// FullVersion appends the engine suffix to the declared version
func (p PackageSpec) FullVersion(suffix string) string {
	return p.Version + "-" + suffix
}

// PayloadName is the directory name NuGet installs the package version into
func PayloadName(id, fullVersion string) string {
	return id + "." + fullVersion
}

// IsPayloadOf reports whether dirName is an installed payload directory of id.
// The remainder after "<id>." must start with a digit so that a package
// named "Foo.Bar" is never taken for a version of "Foo".
func IsPayloadOf(dirName, id string) bool {
	rest, ok := strings.CutPrefix(dirName, id+".")
	if !ok || rest == "" {
		return false
	}
	return rest[0] >= '0' && rest[0] <= '9'
}
