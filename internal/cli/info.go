// internal/cli/info.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [package]",
		Short: "Show the nuspec of a publishable package",
		Long:  `Display the metadata and file list of a package from the Nuspec folder.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}

	entry, err := m.Nuspec(args[0])
	if err != nil {
		return fmt.Errorf("getting package info: %w", err)
	}

	kind := string(entry.Kind())
	if kind == "" {
		kind = "unknown (" + entry.Metadata.Tags + ")"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Package: %s\n", entry.Metadata.ID)
	fmt.Fprintf(out, "Kind: %s\n", kind)
	if entry.Metadata.Authors != "" {
		fmt.Fprintf(out, "Authors: %s\n", entry.Metadata.Authors)
	}
	fmt.Fprintf(out, "Nuspec: %s\n", entry.Path)
	if len(entry.Files) > 0 {
		fmt.Fprintln(out, "Files:")
		for _, f := range entry.Files {
			fmt.Fprintf(out, "  %s -> %s\n", f.Src, f.InstalledPath())
		}
	}

	return nil
}
