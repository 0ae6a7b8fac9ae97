// pkg/nuget/constants.go
package nuget

const (
	// Markers printed by nuget.exe install
	alreadyInstalledMarker = "is already installed"
	installedMarker        = "Successfully installed"
	notFoundMarker         = "is not found in the following primary"

	// Markers printed by nuget.exe sources Add
	sourceExistsMarker = "Please provide a unique name"
	sourceAddedMarker  = "added successfully"

	// PackageExt is the extension of packed artifacts
	PackageExt = ".nupkg"

	// MetadataExt is the extension of package manifests
	MetadataExt = ".nuspec"
)
