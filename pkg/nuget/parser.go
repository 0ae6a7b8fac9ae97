// pkg/nuget/parser.go
package nuget

import (
	"strings"

	"github.com/projectborealis/pbget/pkg/core"
)

// ClassifyInstall translates the output of "nuget install" into an outcome.
// A non-zero exit code is never a success, and output that carries no
// success marker is never a success either.
func ClassifyInstall(output string, exitCode int) core.InstallOutcome {
	if strings.Contains(output, notFoundMarker) {
		return core.OutcomeNotFound
	}
	if exitCode != 0 {
		return core.OutcomeUnknown
	}
	if strings.Contains(output, alreadyInstalledMarker) {
		return core.OutcomeAlreadyInstalled
	}
	if strings.Contains(output, installedMarker) {
		return core.OutcomeInstalled
	}
	return core.OutcomeUnknown
}

// ClassifySourceAdd translates the output of "nuget sources Add"
func ClassifySourceAdd(output string, exitCode int) SourceOutcome {
	if strings.Contains(output, sourceExistsMarker) {
		return SourceExists
	}
	if exitCode == 0 && strings.Contains(output, sourceAddedMarker) {
		return SourceAdded
	}
	return SourceUnknown
}

// ArtifactName is the file name nuget pack produces for id at version
func ArtifactName(id, version string) string {
	return core.PayloadName(id, version) + PackageExt
}
