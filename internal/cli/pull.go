// internal/cli/pull.go
package cli

import (
	"github.com/spf13/cobra"
)

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Install and link every package in the packages file",
		Long: `Install every package listed in the packages file and link its
Binaries folder into the destination.

Packages already installed and linked are left alone. Older versions are
removed first.`,
		Args: cobra.NoArgs,
		RunE: runPull,
	}
}

func runPull(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}

	rep, err := m.Pull(cmd.Context())
	return finish(rep, err)
}
