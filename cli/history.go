package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"perfstat/core"
)

func newHistoryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   CmdHistory,
		Short: "List archived runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withArchive(func(archive *core.Archive) error {
				return listRuns(cmd.OutOrStdout(), archive)
			})
		},
	}
}

func newShowCommand(opts *options) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   CmdShow + " <run-id>",
		Short: "Render an archived run again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			return opts.withArchive(func(archive *core.Archive) error {
				return opts.showRun(cmd.OutOrStdout(), archive, id, raw)
			})
		},
	}
	cmd.Flags().BoolVar(&raw, FlagRaw, false, "Print column totals instead of averages")
	return cmd
}

func newDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   CmdDelete + " <run-id>",
		Short: "Remove a run from the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}
			return opts.withArchive(func(archive *core.Archive) error {
				if err := archive.Delete(id); err != nil {
					return fmt.Errorf("run %d: %w", id, err)
				}
				return nil
			})
		},
	}
}

func parseRunID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}

func listRuns(out io.Writer, archive *core.Archive) error {
	snapshots, err := archive.List()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tLAYOUT\tTITLE\tRECORDS\tSOURCES")
	for _, snapshot := range snapshots {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			snapshot.ID,
			snapshot.CreatedAt.Format("2006-01-02 15:04:05"),
			snapshot.Layout,
			snapshot.Title,
			snapshot.Aggregate.Rows(),
			strings.Join(snapshot.Sources, ","))
	}
	return tw.Flush()
}

func (opts *options) showRun(out io.Writer, archive *core.Archive, id uint64, raw bool) error {
	snapshot, err := archive.Get(id)
	if err != nil {
		return fmt.Errorf("run %d: %w", id, err)
	}
	layout, err := opts.config.Layout(snapshot.Layout)
	if err != nil {
		return fmt.Errorf("run %d: %w", id, err)
	}

	mode := core.Averaged
	if raw || layout.Summary {
		mode = core.Raw
	}
	report, err := snapshot.Aggregate.Render(layout.LabelSpec(snapshot.Title), mode)
	if err != nil {
		return err
	}
	return writeLine(out, report)
}
