// cmd/importkit/extract_cmd.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gobeaver/importkit"
	"github.com/gobeaver/importkit/jobstore"
	"github.com/gobeaver/importkit/metrics"
	"github.com/gobeaver/importkit/progress"
)

func extractCmd(g *globalFlags) *cobra.Command {
	var stagingDir, mediaDir, metricsFile string
	var noValidate, quiet, track, asJSON, preflight bool

	cmd := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Validate and extract an archive",
		Long: `Extract an archive into a staging directory.

Media entries go to --media-dir when given (zero-copy), otherwise they are
staged with everything else. --preflight refuses to start unless each
destination has 2.5x the uncompressed size free (policy space_multiplier)
and is writable. With --track the run is recorded in the job
database and its progress committed as it goes. Ctrl-C stops the run
between entries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd)
			if err != nil {
				return err
			}
			archive := args[0]
			if stagingDir == "" {
				stagingDir = s.cfg.StagingDir
			}
			if mediaDir == "" {
				mediaDir = s.cfg.MediaDir
			}

			if preflight {
				pf := importkit.Preflight(archive, importkit.ExtractOptions{
					StagingDir:   stagingDir,
					MediaDestDir: mediaDir,
					Policy:       s.policy,
				})
				if err := pf.Err(); err != nil {
					printPreflight(cmd.ErrOrStderr(), pf)
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var sinks []progress.Func

			var bar *progressBar
			if !quiet && !asJSON {
				bar = newProgressBar(cmd.ErrOrStderr(), archive)
				sinks = append(sinks, bar.Sink())
			}

			var store *jobstore.Store
			var job *jobstore.ImportJob
			if track {
				if store, err = jobstore.Open(s.cfg.JobDatabase, s.logger); err != nil {
					return err
				}
				defer store.Close()

				if job, err = store.Create(ctx, s.format.String(), archive); err != nil {
					return err
				}
				if err := store.Start(ctx, job); err != nil {
					return err
				}
				sinks = append(sinks, store.Track(ctx, job).Sink(progress.DefaultThrottleOptions()))
			}

			res, runErr := importkit.StreamExtract(ctx, archive, importkit.ExtractOptions{
				StagingDir:    stagingDir,
				MediaDestDir:  mediaDir,
				Format:        s.format,
				Policy:        s.policy,
				ValidateMedia: s.cfg.ValidateMedia && !noValidate,
				Progress:      progress.Monotonic(progress.Chain(sinks...)),
				Logger:        &s.logger,
			})

			if bar != nil {
				bar.Wait()
			}

			if metricsFile != "" {
				reg := prometheus.NewRegistry()
				metrics.New(reg).Observe(res, runErr)
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					s.logger.Error().Err(err).Str("path", metricsFile).Msg("failed to write metrics")
				}
			}

			if store != nil {
				var warnings []string
				if res != nil {
					warnings = res.Warnings
				}
				if err := store.Finish(context.WithoutCancel(ctx), job, warnings, runErr); err != nil {
					s.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to record job outcome")
				}
			}

			if runErr != nil {
				s.logger.Error().Err(runErr).Str("kind", importkit.FailureKind(runErr)).Msg("extraction failed")
				return runErr
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}

			fmt.Fprintln(out, "Summary:")
			fmt.Fprintf(out, "  Data file:   %s\n", res.DataFilePath)
			if res.MediaDirectory != "" {
				fmt.Fprintf(out, "  Media:       %s\n", res.MediaDirectory)
			}
			fmt.Fprintf(out, "  Files:       %d\n", res.FileCount)
			fmt.Fprintf(out, "  Size:        %s\n", formatSize(res.TotalSize))
			if res.Ignored > 0 {
				fmt.Fprintf(out, "  Ignored:     %d\n", res.Ignored)
			}
			if len(res.Warnings) > 0 {
				fmt.Fprintf(out, "  Warnings:    %d (%s)\n", len(res.Warnings), sortedCounts(res.WarningCounts))
			}
			if job != nil {
				fmt.Fprintf(out, "  Job:         %s\n", job.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stagingDir, "staging", "o", "", "Staging directory (default from environment)")
	cmd.Flags().StringVar(&mediaDir, "media-dir", "", "Write media directly into this directory")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip media content validation")
	cmd.Flags().BoolVar(&preflight, "preflight", false, "Check free disk space and write access first")
	cmd.Flags().BoolVar(&track, "track", false, "Record the run in the job database")
	cmd.Flags().StringVar(&metricsFile, "metrics-textfile", "", "Write Prometheus metrics for this run to a textfile")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "No progress bar")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}
