// cmd/importkit/detect_cmd.go

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gobeaver/importkit/filevalidator"
)

func detectCmd(g *globalFlags) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "detect <file>...",
		Short: "Show the detected content type of files",
		Long: `Show each file's content type as detected from its bytes, the
extension-based guess, and with --check whether the media policy accepts it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := "FILE\tDETECTED\tSTRATEGY\tGUESS"
			if check {
				header += "\tRESULT"
			}
			fmt.Fprintln(tw, header)

			rejected := 0
			for _, path := range args {
				det, err := filevalidator.DetectFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				guess := "-"
				if mime, _ := filevalidator.GuessMediaType(path); mime != nil {
					guess = *mime
				}

				line := fmt.Sprintf("%s\t%s\t%s\t%s", path, det.MIME, det.Strategy, guess)
				if check {
					out := filevalidator.ValidateMedia(path, s.policy.MaxBytes()/(1024*1024), s.policy.AllowedMimeTypes, s.policy.AllowedExtensions)
					result := "ok"
					if !out.Valid {
						result = out.Category.Label()
						rejected++
					}
					line += "\t" + result
				}
				fmt.Fprintln(tw, line)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if rejected > 0 {
				return fmt.Errorf("%d of %d files rejected by policy", rejected, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Also apply the media policy")
	return cmd
}
