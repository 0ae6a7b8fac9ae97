package nuget_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/projectborealis/pbget/pkg/core"
	"github.com/projectborealis/pbget/pkg/nuget"
)

func TestClassifyInstall(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		exitCode int
		want     core.InstallOutcome
	}{
		{
			name:   "installed",
			output: "Feeds used:\n  https://example/index.json\n\nSuccessfully installed 'PBCore 1.2.0-abcdef12' to .\n",
			want:   core.OutcomeInstalled,
		},
		{
			name:   "already installed",
			output: "Package \"PBCore.1.2.0-abcdef12\" is already installed.\n",
			want:   core.OutcomeAlreadyInstalled,
		},
		{
			name:     "not found",
			output:   "Package 'PBCore 9.9.9' is not found in the following primary source(s): 'https://example'.",
			exitCode: 1,
			want:     core.OutcomeNotFound,
		},
		{
			name:     "success marker with failing exit code",
			output:   "Successfully installed 'PBCore 1.2.0'\nUnable to find dependency",
			exitCode: 1,
			want:     core.OutcomeUnknown,
		},
		{
			name:   "empty output",
			output: "",
			want:   core.OutcomeUnknown,
		},
		{
			name:   "unrecognized output",
			output: "The remote server returned an error: (401) Unauthorized.",
			want:   core.OutcomeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nuget.ClassifyInstall(tt.output, tt.exitCode))
		})
	}
}

// Success must imply a success marker, whatever else the output holds.
func TestClassifyInstallFailSafe(t *testing.T) {
	fragments := []string{
		"", "Feeds used:", "WARNING: something", "Installing package", "error",
		"Successfully installed", "is already installed", "is not found in the following primary",
		"Restoring", "\n",
	}

	for i := range fragments {
		for j := range fragments {
			for _, code := range []int{0, 1, -1} {
				output := fragments[i] + " " + fragments[j]
				outcome := nuget.ClassifyInstall(output, code)
				if !outcome.Success() {
					continue
				}
				hasMarker := strings.Contains(output, "Successfully installed") ||
					strings.Contains(output, "is already installed")
				assert.True(t, hasMarker, "output %q classified as %s", output, outcome)
				assert.Zero(t, code, "output %q succeeded with exit code %d", output, code)
			}
		}
	}
}

func TestClassifySourceAdd(t *testing.T) {
	assert.Equal(t, nuget.SourceAdded, nuget.ClassifySourceAdd("Package source with Name: Binaries added successfully.", 0))
	assert.Equal(t, nuget.SourceExists, nuget.ClassifySourceAdd("The name specified has already been added to the list of available package sources. Please provide a unique name.", 1))
	assert.Equal(t, nuget.SourceUnknown, nuget.ClassifySourceAdd("boom", 1))
	assert.Equal(t, nuget.SourceUnknown, nuget.ClassifySourceAdd("added successfully", 1))
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "PBCore.1.2.0-abcdef12.nupkg", nuget.ArtifactName("PBCore", "1.2.0-abcdef12"))
}
