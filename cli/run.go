package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"perfstat/config"
	"perfstat/core"
)

type runFlags struct {
	layout    string
	raw       bool
	stddev    bool
	noArchive bool
}

func newMeanCommand(opts *options) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   CmdMean + " <input-path>...",
		Short: "Print per-column averages of every record",
		Long: `Average every column over all records of the input files and print one
line per column pair. Several files are aggregated separately and merged, so
the result equals averaging their concatenation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runMean(cmd.OutOrStdout(), flags, args)
		},
	}
	cmd.Flags().StringVar(&flags.layout, FlagLayout, config.LayoutMean, "Layout to read and report with")
	cmd.Flags().BoolVar(&flags.raw, FlagRaw, false, "Print column totals instead of averages")
	cmd.Flags().BoolVar(&flags.stddev, FlagStdDev, false, "Also print the sample standard deviation of each column")
	cmd.Flags().BoolVar(&flags.noArchive, FlagNoArchive, false, "Do not archive this run")
	return cmd
}

func newSummaryCommand(opts *options) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   CmdSummary + " <title> <input-path>",
		Short: "Print a one-line summary of a single run",
		Long: `Read the first record of the input file and print the title followed by
every counter whose consumed value is non-zero, as consumed/bytes, and the
grand total.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runSummary(cmd.OutOrStdout(), flags, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&flags.layout, FlagLayout, config.LayoutSummary, "Layout to read and report with")
	cmd.Flags().BoolVar(&flags.noArchive, FlagNoArchive, false, "Do not archive this run")
	return cmd
}

func (opts *options) runMean(out io.Writer, flags *runFlags, paths []string) error {
	layout, err := opts.config.Layout(flags.layout)
	if err != nil {
		return err
	}

	agg := layout.NewAggregate()
	for _, path := range paths {
		part, err := opts.readInput(layout, path)
		if err != nil {
			return err
		}
		if err := agg.Merge(part); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	mode := core.Averaged
	if flags.raw {
		mode = core.Raw
	}
	spec := layout.LabelSpec("")
	report, err := agg.Render(spec, mode)
	if err != nil {
		return err
	}
	if err := writeLine(out, report); err != nil {
		return err
	}

	if flags.stddev {
		sds, err := agg.StdDev()
		if err != nil {
			return err
		}
		if err := writeLine(out, "stddev:\n"+spec.Format(sds, core.Averaged)); err != nil {
			return err
		}
	}

	return opts.archiveRun(flags, core.NewSnapshot(flags.layout, "", paths, agg))
}

func (opts *options) runSummary(out io.Writer, flags *runFlags, title, path string) error {
	layout, err := opts.config.Layout(flags.layout)
	if err != nil {
		return err
	}

	agg, err := opts.readInput(layout, path)
	if err != nil {
		return err
	}
	if agg.Rows() == 0 {
		return fmt.Errorf("%s: %w", path, &core.FormatError{Reason: "no record"})
	}

	report, err := agg.Render(layout.LabelSpec(title), core.Raw)
	if err != nil {
		return err
	}
	if err := writeLine(out, report); err != nil {
		return err
	}

	return opts.archiveRun(flags, core.NewSnapshot(flags.layout, title, []string{path}, agg))
}

func (opts *options) readInput(layout *config.LayoutConfig, path string) (*core.Aggregate, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	agg := layout.NewAggregate()
	n, err := agg.ReadFrom(f, layout.Records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	opts.logger.Debug("read input",
		zap.String("path", path),
		zap.Int("records", n))
	return agg, nil
}

func (opts *options) archiveRun(flags *runFlags, snapshot *core.Snapshot) error {
	if opts.archivePath == "" || flags.noArchive {
		return nil
	}
	return opts.withArchive(func(archive *core.Archive) error {
		id, err := archive.Save(snapshot)
		if err != nil {
			return fmt.Errorf("failed to archive run: %w", err)
		}
		opts.logger.Info("archived run", zap.Uint64("id", id))
		return nil
	})
}
