// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/projectborealis/pbget"
	"github.com/projectborealis/pbget/pkg/core"
	"github.com/projectborealis/pbget/pkg/report"
)

var (
	cfgFile   string
	nugetPath string
	debug     bool
	force     bool
	config    *core.Config
	logger    *log.Logger
)

// newRootCmd builds the command tree. Flags are bound afresh on every call.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pbget",
		Short: "Binary package manager for Project Borealis",
		Long: `pbget - Binary package manager for Project Borealis

Installs the prebuilt binaries listed in PBGet.packages through NuGet and
links them into the project, and packs and publishes them from Nuspec/.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
	}

	// Global flags
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+core.DefaultConfigFile+")")
	root.PersistentFlags().StringVar(&nugetPath, "nuget", "", "path to the NuGet executable")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&force, "force", false, "run even while the editor is open")

	// Add commands
	root.AddCommand(newPullCmd())
	root.AddCommand(newPushCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newResetCacheCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the command line. SIGINT and SIGTERM cancel the running
// command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Flags the user set override the file
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "nuget":
			config.NuGetPath = nugetPath
		case "debug":
			config.Debug = debug
		}
	})

	level := log.InfoLevel
	if config.Debug {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:  level,
		Prefix: "pbget",
	})
	return nil
}

func newManager(cmd *cobra.Command) (*pbget.Manager, error) {
	return pbget.NewManager(config, &pbget.Options{
		Out:    cmd.OutOrStdout(),
		Logger: logger,
		Force:  force,
	})
}

// finish turns a run result into the command's error
func finish(rep *report.Report, err error) error {
	if errors.Is(err, context.Canceled) {
		return &ExitError{Code: 1, Err: errors.New("interrupted")}
	}
	if err != nil {
		return err
	}
	if code := rep.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
