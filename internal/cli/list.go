// internal/cli/list.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List publishable packages",
		Long:  `List every nuspec in the Nuspec folder with its package kind.`,
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}

	entries, err := m.Nuspecs()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Platform: %s\n\n", m.Platform())
	if len(entries) == 0 {
		fmt.Fprintf(out, "No nuspec files found\n")
		return nil
	}

	fmt.Fprintf(out, "Packages:\n")
	for _, e := range entries {
		kind := string(e.Kind())
		if kind == "" {
			kind = "?"
		}
		fmt.Fprintf(out, "  %-40s %s\n", e.Metadata.ID, kind)
	}
	fmt.Fprintf(out, "\n? = not pushed, tags are neither Main nor Plugin\n")

	return nil
}
