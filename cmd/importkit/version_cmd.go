// cmd/importkit/version_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "importkit %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		},
	}
}
