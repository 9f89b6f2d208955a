// cmd/importkit/jobs_cmd.go

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gobeaver/importkit/jobstore"
)

func jobsCmd(g *globalFlags) *cobra.Command {
	var recoverStale bool

	cmd := &cobra.Command{
		Use:   "jobs [id]",
		Short: "List tracked import jobs or show one",
		Long: `List the jobs recorded by "extract --track", newest first, or print one
job as JSON. --recover first marks jobs left running by a crashed process
as failed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd)
			if err != nil {
				return err
			}

			store, err := jobstore.Open(s.cfg.JobDatabase, s.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if recoverStale {
				n, err := store.RecoverStale(ctx)
				if err != nil {
					return err
				}
				if n > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "Marked %d stale jobs as failed\n", n)
				}
			}

			if len(args) == 1 {
				job, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(out, job)
			}

			jobs, err := store.List(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tPROGRESS\tITEMS\tWARNINGS\tCREATED")
			for _, j := range jobs {
				fmt.Fprintf(tw, "%s\t%s\t%d%%\t%d/%d\t%d\t%s\n",
					j.ID, j.Status, j.Progress, j.ProcessedItems, j.TotalItems, len(j.Warnings),
					j.CreatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&recoverStale, "recover", false, "Mark stale running jobs as failed first")
	return cmd
}
