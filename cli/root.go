package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"perfstat/config"
	"perfstat/core"
	"perfstat/utils"
)

// CLI Constants
const (
	CmdMean       = "mean"
	CmdSummary    = "summary"
	CmdHistory    = "history"
	CmdShow       = "show"
	CmdDelete     = "delete"
	CmdConfig     = "config"
	CmdConfigInit = "init"
	FlagConfig    = "config"
	FlagArchive   = "archive"
	FlagVerbose   = "verbose"
	FlagLayout    = "layout"
	FlagRaw       = "raw"
	FlagStdDev    = "stddev"
	FlagNoArchive = "no-archive"
	FlagForce     = "force"
)

// options carries flag values and state shared by the commands of one
// invocation.
type options struct {
	configPath  string
	archivePath string
	verbose     bool

	config *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the perfstat command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "perfstat",
		Short: "Summarize performance-log counters",
		Long: `perfstat reads whitespace-separated numeric records produced by perf runs
(timing columns followed by bytes/consumed counter pairs) and prints either the
per-column averages or a one-line summary of a single run.

EXAMPLES:
  perfstat mean perf.log                  # average every column of perf.log
  perfstat mean run1.log run2.log         # average across several files
  perfstat summary boot perf.log          # one-line summary of the first record
  perfstat --archive ~/.perfstat/runs history
  perfstat config init                    # write the default layouts`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, FlagConfig, "c", config.GetDefaultConfigPath(), "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&opts.archivePath, FlagArchive, "", "Run archive directory (overrides archive.path)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, FlagVerbose, "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(newMeanCommand(opts))
	rootCmd.AddCommand(newSummaryCommand(opts))
	rootCmd.AddCommand(newHistoryCommand(opts))
	rootCmd.AddCommand(newShowCommand(opts))
	rootCmd.AddCommand(newDeleteCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}

// Execute runs the command line with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (opts *options) setup() error {
	if opts.logger == nil {
		opts.logger = utils.NewLogger(opts.verbose)
	}
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return err
	}
	opts.config = cfg
	if opts.archivePath == "" {
		opts.archivePath = cfg.Archive.Path
	}
	opts.logger.Debug("configuration loaded",
		zap.String("path", opts.configPath),
		zap.String("archive", opts.archivePath))
	return nil
}

// withArchive opens the configured archive for the duration of fn.
func (opts *options) withArchive(fn func(*core.Archive) error) (err error) {
	if opts.archivePath == "" {
		return fmt.Errorf("no archive configured: pass --%s or set archive.path", FlagArchive)
	}
	archive, err := core.OpenArchive(opts.archivePath, opts.config.Archive.Cache, opts.logger)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		err = multierr.Append(err, archive.Close())
	}()
	return fn(archive)
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}
