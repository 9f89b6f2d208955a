// cmd/importkit/validate_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gobeaver/importkit"
)

func validateCmd(g *globalFlags) *cobra.Command {
	var asJSON, preflight bool

	cmd := &cobra.Command{
		Use:   "validate <archive>",
		Short: "Check an archive's structure without extracting it",
		Long: `Check the archive's table of contents and the CRC of every member.

Reports a missing data file, unsafe entry names, corruption and an archive
larger than the policy ceiling. Nothing is written to disk, except that
--preflight creates the configured directories and a temporary file that is
removed again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd)
			if err != nil {
				return err
			}

			res := importkit.ValidateArchiveWithPolicy(args[0], s.format, s.policy)

			var pf *importkit.PreflightResult
			if preflight {
				r := importkit.Preflight(args[0], importkit.ExtractOptions{
					StagingDir:   s.cfg.StagingDir,
					MediaDestDir: s.cfg.MediaDir,
					Policy:       s.policy,
				})
				pf = &r
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, validateOutput{ArchiveValidationResult: res, Preflight: pf}); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "Archive:     %s (%s)\n", args[0], s.format)
				fmt.Fprintf(out, "Files:       %d\n", res.FileCount)
				fmt.Fprintf(out, "Size:        %s\n", formatSize(res.TotalUncompressedSize))
				fmt.Fprintf(out, "Data file:   %s\n", yesNo(res.HasDataFile))
				fmt.Fprintf(out, "Media:       %s\n", yesNo(res.HasMedia))
				for _, e := range res.Errors {
					fmt.Fprintf(out, "  - %s\n", e)
				}
				if pf != nil {
					printPreflight(out, *pf)
				}
			}

			if !res.Valid {
				return fmt.Errorf("archive is invalid (%d problems)", len(res.Errors))
			}
			if pf != nil {
				if err := pf.Err(); err != nil {
					return err
				}
			}
			if !asJSON {
				fmt.Fprintln(out, "Archive is valid")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&preflight, "preflight", false, "Also check free disk space and write access of the configured directories")
	return cmd
}

// validateOutput is the --json shape; preflight is present only when run.
type validateOutput struct {
	importkit.ArchiveValidationResult
	Preflight *importkit.PreflightResult `json:"preflight,omitempty"`
}
