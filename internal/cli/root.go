package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogsync/internal/config"
	"github.com/roach88/catalogsync/internal/ir"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Env holds environment defaults. Flags override them.
	Env config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the catalogsync CLI.
// Flag defaults come from the CATALOGSYNC_* environment.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	env, envErr := config.Load()
	opts.Env = env

	cmd := &cobra.Command{
		Use:     "catalogsync",
		Short:   "catalogsync - sectioned catalog synchronization",
		Version: ir.EngineVersion,
		Long: `Diff, validate and replay sectioned catalogs, and drive the
component filter against a persistent filter store.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", envErr)
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			configureLogging(cmd, opts)
			return nil
		},
	}

	format := env.Format
	if envErr != nil || format == "" {
		format = "text"
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", format, "output format (json|text)")

	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// configureLogging installs a text handler on stderr. --verbose forces
// debug level; otherwise CATALOGSYNC_LOG_LEVEL applies.
func configureLogging(cmd *cobra.Command, opts *RootOptions) {
	level, err := config.ParseLevel(opts.Env.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
