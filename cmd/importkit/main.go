// cmd/importkit/main.go

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gobeaver/importkit"
	"github.com/gobeaver/importkit/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	format     string
	policyPath string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "importkit",
		Short: "importkit - safe ingestion of journal export archives",
		Long: `importkit validates and extracts journal export archives.

Archives are checked for corruption, size and hostile paths before anything
is written, then extracted one entry at a time. Media files whose real
content type is not allowed are deleted and reported as warnings.

Defaults come from BEAVER_IMPORTKIT_* environment variables.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.format, "format", "f", "", "Source format: journiv or dayone (default from environment)")
	root.PersistentFlags().StringVar(&g.policyPath, "policy", "", "YAML policy file (replaces the environment policy)")

	root.AddCommand(
		versionCmd(),
		validateCmd(g),
		extractCmd(g),
		uploadCmd(g),
		exportCmd(),
		checksumCmd(),
		detectCmd(g),
		sanitizeCmd(),
		jobsCmd(g),
	)
	return root
}

// settings is the configuration resolved for one command run.
type settings struct {
	cfg    *importkit.Config
	format importkit.SourceFormat
	policy importkit.Policy
	logger zerolog.Logger
}

// load reads the environment config and applies the persistent flags.
func (g *globalFlags) load(cmd *cobra.Command) (*settings, error) {
	cfg, err := importkit.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g.format != "" {
		cfg.SourceFormat = g.format
	}

	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}

	policy := cfg.Policy()
	if g.policyPath != "" {
		if policy, err = importkit.LoadPolicyFile(g.policyPath); err != nil {
			return nil, err
		}
	}

	logger := logging.SetupWithWriter(cfg.Environment, zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})

	return &settings{cfg: cfg, format: format, policy: policy, logger: logger}, nil
}
