// cmd/importkit/upload_cmd.go

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gobeaver/importkit"
)

func uploadCmd(g *globalFlags) *cobra.Command {
	var dir, name string

	cmd := &cobra.Command{
		Use:   "upload <archive|->",
		Short: "Store an archive in the upload directory after validating it",
		Long: `Copy an archive into the upload directory under a unique name.

Reading stops as soon as the policy ceiling is exceeded. An archive that
fails validation is removed again. Use "-" to read from stdin together
with --name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = s.cfg.UploadDir
			}

			var r io.Reader
			if args[0] == "-" {
				if name == "" {
					return fmt.Errorf("--name is required when reading from stdin")
				}
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
				if name == "" {
					name = filepath.Base(args[0])
				}
			}

			stored, err := importkit.SaveUpload(cmd.Context(), r, name, dir, s.format, s.policy)
			if err != nil {
				return err
			}

			s.logger.Info().Str("path", stored).Msg("upload stored")
			fmt.Fprintln(cmd.OutOrStdout(), stored)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Upload directory (default from environment)")
	cmd.Flags().StringVar(&name, "name", "", "Original file name (required for stdin)")
	return cmd
}
