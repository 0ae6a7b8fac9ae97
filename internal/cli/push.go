// internal/cli/push.go
package cli

import (
	"github.com/spf13/cobra"
)

var pushPackage string

func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Pack and publish packages from the Nuspec folder",
		Long: `Pack every nuspec in the Nuspec folder, or only the one named with
--package, and push it to the configured source.

Main packages take their version from DefaultGame.ini, plugins from their
.uplugin descriptor.

Examples:
  pbget push
  pbget push --package PBCore
  pbget push --package PBCore.nuspec`,
		Args: cobra.NoArgs,
		RunE: runPush,
	}
	cmd.Flags().StringVar(&pushPackage, "package", "", "push only this package")
	return cmd
}

func runPush(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}

	rep, err := m.Push(cmd.Context(), pushPackage)
	return finish(rep, err)
}
