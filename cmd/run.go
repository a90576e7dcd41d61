// cmd/run.go
package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/config"
	"github.com/xkilldash9x/gauntlet/internal/harness"
	"github.com/xkilldash9x/gauntlet/internal/observability"
	"github.com/xkilldash9x/gauntlet/internal/report"
	"github.com/xkilldash9x/gauntlet/internal/scenarios"
)

// openCase is swapped out in tests.
var openCase = harness.Open

// Report file names inside the report directory.
const (
	JUnitFile   = "junit.xml"
	SummaryFile = "summary.json"
)

func newRunCmd() *cobra.Command {
	var (
		tags    []string
		list    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the acceptance suites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			suites := harness.Filter(scenarios.All(), tags...)

			if list {
				for _, suite := range suites {
					for _, test := range suite.Tests {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", suite.Group, test.Name)
					}
				}
				return nil
			}
			return runSuites(cmd, cfg, suites, timeout)
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "only run tests with one of these tags")
	cmd.Flags().BoolVar(&list, "list", false, "print the selected tests without running them")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "bound for a single test, teardown excluded")
	cmd.Flags().String("build-path", "", "report sub directory name, e.g. a CI build number")
	cmd.Flags().Bool("junit", true, "write a JUnit report next to the screenshots")
	return cmd
}

func runSuites(cmd *cobra.Command, cfg *config.Config, suites []harness.Suite, timeout time.Duration) error {
	logger := observability.GetLogger()
	formatter := report.NewFormatter(cmd.OutOrStdout(), cfg.Report().Color)

	r := &harness.Runner{
		Open: func(ctx context.Context) (*harness.Case, error) {
			return openCase(ctx, cfg, logger)
		},
		Formatter: formatter,
		Timeout:   timeout,
		Logger:    logger,
	}

	start := time.Now()
	results := r.Run(cmd.Context(), suites...)
	summary := report.Summarize(results, time.Since(start))
	formatter.Summary(summary)

	if cfg.Report().JUnit {
		path := filepath.Join(cfg.Report().OutputDir(), JUnitFile)
		if err := report.WriteJUnit(path, "gauntlet", results, summary); err != nil {
			return err
		}
		logger.Info("Wrote JUnit report.", zap.String("path", path))
	}
	if err := report.WriteSummaryJSON(filepath.Join(cfg.Report().OutputDir(), SummaryFile), results, summary); err != nil {
		return err
	}

	if err := cmd.Context().Err(); err != nil {
		return err
	}
	if !summary.OK() {
		return fmt.Errorf("%w: %d of %d", ErrTestsFailed, summary.Failed, summary.Total)
	}
	return nil
}
