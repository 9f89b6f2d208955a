// cmd/importkit/output.go

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gobeaver/importkit"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// formatSize formats bytes into a human-readable string
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// truncateLeft shortens a path from the left to fit maxLen, keeping the
// file name visible.
func truncateLeft(path string, maxLen int) string {
	if len(path) <= maxLen || maxLen < 4 {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// sortedCounts renders a label->count map in a stable order.
func sortedCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

func printPreflight(w io.Writer, pf importkit.PreflightResult) {
	fmt.Fprintln(w, "Preflight:")
	for _, c := range pf.Checks {
		status := "ok"
		if !c.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "  %-4s %-12s %s\n", status, c.Name, c.Message)
	}
}
