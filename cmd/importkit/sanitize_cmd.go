// cmd/importkit/sanitize_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gobeaver/importkit"
)

func sanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize <name>...",
		Short: "Print the storage-safe form of file names",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range args {
				fmt.Fprintln(cmd.OutOrStdout(), importkit.SanitizeFilename(name))
			}
		},
	}
}
