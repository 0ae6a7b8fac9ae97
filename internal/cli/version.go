// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projectborealis/pbget/pkg/platform"
)

// Version is set at build time with -ldflags
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pbget version %s\n", Version)
			fmt.Fprintf(out, "Platform: %s\n", platform.Detect(config.NuGetPath))
		},
	}
}
