// cmd/importkit/export_cmd.go

package main

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gobeaver/importkit"
)

func exportCmd() *cobra.Command {
	var dataPath, mediaRoot, output string
	var media map[string]string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an archive in the primary export layout",
		Long: `Write data.json plus media/<path> entries into a new archive.

Media come from --media rel=path pairs and from every file below
--media-root, stored under their path relative to that root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := make(map[string]string, len(media))
			for rel, src := range media {
				all[rel] = src
			}

			if mediaRoot != "" {
				err := filepath.WalkDir(mediaRoot, func(path string, d fs.DirEntry, err error) error {
					if err != nil || d.IsDir() {
						return err
					}
					rel, err := filepath.Rel(mediaRoot, path)
					if err != nil {
						return err
					}
					all[filepath.ToSlash(rel)] = path
					return nil
				})
				if err != nil {
					return fmt.Errorf("scan media root: %w", err)
				}
			}

			size, err := importkit.WriteExportArchive(output, dataPath, all)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d media files)\n", output, formatSize(size), len(all))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Structured data file stored as data.json (required)")
	cmd.Flags().StringToStringVar(&media, "media", nil, "Media file as rel=path (repeatable)")
	cmd.Flags().StringVar(&mediaRoot, "media-root", "", "Directory whose files are added as media")
	cmd.Flags().StringVarP(&output, "output", "o", "export.zip", "Output archive")

	_ = cmd.MarkFlagRequired("data")

	return cmd
}
