// cmd/importkit/checksum_cmd.go

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gobeaver/importkit"
)

func checksumCmd() *cobra.Command {
	var algos []string

	cmd := &cobra.Command{
		Use:   "checksum <file>...",
		Short: "Print file checksums",
		Long: `Print checksums for each file, one line per algorithm.

Supported algorithms: sha256 (default), sha512, sha1, md5, crc32, xxhash,
blake3. Several algorithms are computed in a single pass.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := make([]importkit.ChecksumAlgorithm, 0, len(algos))
			for _, a := range algos {
				list = append(list, importkit.ChecksumAlgorithm(strings.ToLower(strings.TrimSpace(a))))
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				sums, err := checksumFile(path, list)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				for _, a := range list {
					if sum, ok := sums[a]; ok {
						if len(list) == 1 {
							fmt.Fprintf(out, "%s  %s\n", sum, path)
						} else {
							fmt.Fprintf(out, "%-7s %s  %s\n", a, sum, path)
						}
						delete(sums, a)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&algos, "algo", "a", []string{string(importkit.ChecksumSHA256)}, "Checksum algorithms")
	return cmd
}

func checksumFile(path string, algos []importkit.ChecksumAlgorithm) (map[importkit.ChecksumAlgorithm]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importkit.CalculateChecksums(f, algos)
}
