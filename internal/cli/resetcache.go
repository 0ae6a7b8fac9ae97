// internal/cli/resetcache.go
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var resetCacheClear bool

func newResetCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resetcache",
		Short: "List or clear the local NuGet caches",
		Args:  cobra.NoArgs,
		RunE:  runResetCache,
	}
	cmd.Flags().BoolVar(&resetCacheClear, "clear", false, "clear the caches instead of listing them")
	return cmd
}

func runResetCache(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}

	if err := m.ResetCache(cmd.Context(), resetCacheClear); err != nil {
		if errors.Is(err, context.Canceled) {
			return &ExitError{Code: 1, Err: errors.New("interrupted")}
		}
		return err
	}
	return nil
}
