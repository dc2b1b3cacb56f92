package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bankinfer/app"
	"bankinfer/domain/stats"
	"bankinfer/internal"
	"bankinfer/internal/config"
	"bankinfer/internal/container"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	path     string
	url      string
	outcome  string
	format   string
	logLevel string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "bankinfer",
		Short: "Confidence intervals and hypothesis tests over a bank marketing dataset",
		Long: `bankinfer loads a tabular dataset, detects its binary outcome column and
reports Wilson intervals, two-proportion z-tests, chi-square independence
tests, t intervals and Welch's t-test.

The dataset comes from --path or --url, falling back to DATASET_PATH,
DATASET_URL or DATASET_SQL_* in the environment.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.path, "path", "", "CSV or XLSX file to analyze")
	rootCmd.PersistentFlags().StringVar(&flags.url, "url", "", "http(s) URL of a CSV file to analyze")
	rootCmd.PersistentFlags().StringVar(&flags.outcome, "outcome", "", "Outcome column, skipping detection")
	rootCmd.PersistentFlags().StringVar(&flags.format, "format", "text", "Output format: text or json")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (defaults to LOG_LEVEL or warn)")

	rootCmd.AddCommand(
		newDetectCmd(flags),
		newDescribeCmd(flags),
		newProportionCmd(flags),
		newMeanCmd(flags),
	)
	return rootCmd
}

func newDetectCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show the detected outcome column and the dataset schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.container()
			if err != nil {
				return err
			}
			defer c.Close()

			overview, err := c.Describe.Overview(cmd.Context())
			if err != nil {
				return err
			}
			return flags.emit(cmd.OutOrStdout(), overview, func(w io.Writer) { writeOverview(w, overview) })
		},
	}
}

func newDescribeCmd(flags *globalFlags) *cobra.Command {
	var correlate []string
	var crossRow, crossCol string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Summarize every column",
		Long: `Summarize numeric and categorical columns, optionally with a Pearson
correlation matrix and a cross tabulation.

Example: bankinfer describe --path bank.csv --correlate age,balance --cross job,marital`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.container()
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.Describe.Describe(cmd.Context(), app.DescribeRequest{
				Correlate: correlate,
				CrossRow:  crossRow,
				CrossCol:  crossCol,
			})
			if err != nil {
				return err
			}
			return flags.emit(cmd.OutOrStdout(), report, func(w io.Writer) { writeReport(w, report) })
		},
	}

	cmd.Flags().StringSliceVar(&correlate, "correlate", nil, "Numeric columns to correlate")
	cmd.Flags().StringVar(&crossRow, "cross-row", "", "Row column of the cross tabulation")
	cmd.Flags().StringVar(&crossCol, "cross-col", "", "Column of the cross tabulation")
	cmd.MarkFlagsRequiredTogether("cross-row", "cross-col")
	return cmd
}

func newProportionCmd(flags *globalFlags) *cobra.Command {
	sel := stats.Selection{Mode: stats.ModeProportion}

	cmd := &cobra.Command{
		Use:   "proportion",
		Short: "Outcome rate intervals and tests across a grouping column",
		Long: `Report the global outcome rate with its Wilson interval. With --group, add
per-level intervals, a two-proportion z-test between two levels and a
chi-square test of independence.

Example: bankinfer proportion --path bank.csv --group marital --level-a married --level-b single`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.analyze(cmd, sel)
		},
	}

	cmd.Flags().StringVar(&sel.Group, "group", "", "Categorical grouping column")
	cmd.Flags().StringVar(&sel.LevelA, "level-a", "", "First level to compare")
	cmd.Flags().StringVar(&sel.LevelB, "level-b", "", "Second level to compare")
	return cmd
}

func newMeanCmd(flags *globalFlags) *cobra.Command {
	sel := stats.Selection{Mode: stats.ModeMean}

	cmd := &cobra.Command{
		Use:   "mean",
		Short: "Compare a numeric column between outcome groups",
		Long: `Report t intervals of a numeric column for each outcome group and Welch's
t-test of their difference.

Example: bankinfer mean --path bank.csv --numeric age`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.analyze(cmd, sel)
		},
	}

	cmd.Flags().StringVar(&sel.Numeric, "numeric", "", "Numeric column (defaults to the first numeric column)")
	return cmd
}

func (f *globalFlags) analyze(cmd *cobra.Command, sel stats.Selection) error {
	c, err := f.container()
	if err != nil {
		return err
	}
	defer c.Close()

	bundle, err := c.Inference.Run(cmd.Context(), sel)
	if err != nil {
		return err
	}
	return f.emit(cmd.OutOrStdout(), bundle, func(w io.Writer) { writeBundle(w, bundle) })
}

// container builds the application from the environment with the command
// line flags taking precedence
func (f *globalFlags) container() (*container.Container, error) {
	if f.path != "" && f.url != "" {
		return nil, fmt.Errorf("--path and --url are mutually exclusive")
	}
	overrides := map[string]string{
		"DATASET_PATH":   f.path,
		"DATASET_URL":    f.url,
		"OUTCOME_COLUMN": f.outcome,
	}
	if f.path != "" || f.url != "" {
		for _, key := range []string{"DATASET_PATH", "DATASET_URL", "DATASET_SQL_DRIVER", "DATASET_SQL_DSN", "DATASET_SQL_TABLE"} {
			os.Unsetenv(key)
		}
	}
	for key, value := range overrides {
		if value != "" {
			os.Setenv(key, value)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	levelName := f.logLevel
	if levelName == "" {
		levelName = os.Getenv("LOG_LEVEL")
	}
	if levelName == "" {
		levelName = "warn"
	}
	level, ok := internal.ParseLogLevel(levelName)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", levelName)
	}

	return container.New(cfg, internal.NewLoggerWithWriter(level, os.Stderr))
}

func (f *globalFlags) emit(w io.Writer, v any, text func(io.Writer)) error {
	switch strings.ToLower(f.format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text", "":
		text(w)
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected text or json", f.format)
	}
}
