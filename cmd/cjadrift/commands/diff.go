package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cjatools/cjadrift/internal/cja"
	"github.com/cjatools/cjadrift/internal/differ"
	cjaerrors "github.com/cjatools/cjadrift/internal/errors"
	"github.com/cjatools/cjadrift/internal/output"
	"github.com/cjatools/cjadrift/internal/storage"
	"github.com/cjatools/cjadrift/pkg/types"
)

// Exit codes of the diff command. 1 is reserved for operational errors and
// produced through the normal RunE error path.
const (
	exitNoChanges         = 0
	exitChanges           = 2
	exitThresholdExceeded = 3
)

func newDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two data view snapshots",
		Long: `Compare a source snapshot against a target and report component
additions, removals, and field-level modifications.

Each side is either a snapshot file (--from / --to) or a live data view
fetched from the API (--from-dataview / --to-dataview). Output order is
deterministic: components are reported in ascending ID order regardless
of input order.

Exit codes follow the CI convention: 0 when the snapshots are identical,
2 when changes were found, 3 when the change percentage exceeds
--fail-threshold, and 1 on operational errors.`,
		Example: `  # Compare two snapshot files
  cjadrift diff --from baseline.json --to current.json

  # Compare a saved baseline against the live data view
  cjadrift diff --from baseline.json --to-dataview dv_12345

  # Gate a pipeline on schema churn
  cjadrift diff --from a.json --to b.json --fail-threshold 10 --quiet

  # Post-ready markdown for a pull request
  cjadrift diff --from a.json --to b.json --format pr-comment -o comment.md`,
		RunE: runDiff,
	}

	cmd.Flags().String("from", "", "source snapshot file")
	cmd.Flags().String("to", "", "target snapshot file")
	cmd.Flags().String("from-dataview", "", "source data view ID (fetched live)")
	cmd.Flags().String("to-dataview", "", "target data view ID (fetched live)")
	cmd.Flags().StringP("format", "f", "", "output format: console, json, yaml, markdown, pr-comment, html, csv, xlsx")
	cmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	cmd.Flags().Bool("metrics-only", false, "compare metrics only")
	cmd.Flags().Bool("dimensions-only", false, "compare dimensions only")
	cmd.Flags().StringSlice("ignore-fields", nil, "field names to exclude from comparison")
	cmd.Flags().StringSlice("compare-fields", nil, "explicit field list to compare (overrides the field set)")
	cmd.Flags().StringSlice("show-only", nil, "restrict reported components to these change types (added, removed, modified, unchanged)")
	cmd.Flags().Bool("extended-fields", false, "compare the extended field set (attribution, bucketing, persistence, formulas)")
	cmd.Flags().Bool("changes-only", false, "omit unchanged components from the output")
	cmd.Flags().Float64("fail-threshold", 0, "exit 3 when the change percentage exceeds this value (0 disables)")
	cmd.Flags().BoolP("quiet", "q", false, "suppress output; communicate through the exit code only")

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	fromFile, _ := cmd.Flags().GetString("from")
	toFile, _ := cmd.Flags().GetString("to")
	fromDV, _ := cmd.Flags().GetString("from-dataview")
	toDV, _ := cmd.Flags().GetString("to-dataview")

	if fromFile == "" && fromDV == "" {
		return cjaerrors.New(cjaerrors.KindValidation, "no comparison source given").
			WithSolutions("Pass --from <file> or --from-dataview <id>")
	}
	if toFile == "" && toDV == "" {
		return cjaerrors.New(cjaerrors.KindValidation, "no comparison target given").
			WithSolutions("Pass --to <file> or --to-dataview <id>")
	}

	opts, err := diffOptions(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	source, err := loadSide(ctx, fromFile, fromDV)
	if err != nil {
		return err
	}
	target, err := loadSide(ctx, toFile, toDV)
	if err != nil {
		return err
	}

	comparator := differ.NewWithLogger(opts, log)
	result, err := comparator.Compare(source, target)
	if err != nil {
		return err
	}
	breaking := differ.DetectBreakingChanges(result)

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		if err := renderDiff(cmd, result, breaking); err != nil {
			return err
		}
	}

	threshold, _ := cmd.Flags().GetFloat64("fail-threshold")
	if threshold == 0 {
		threshold = cfg.Diff.FailThreshold
	}
	os.Exit(diffExitCode(result, threshold))
	return nil
}

// diffExitCode maps a finished comparison onto the documented exit codes.
func diffExitCode(result *types.DiffResult, threshold float64) int {
	if !result.Summary.HasChanges() {
		return exitNoChanges
	}
	if threshold > 0 && result.Summary.MaxChangePercent() > threshold {
		return exitThresholdExceeded
	}
	return exitChanges
}

func diffOptions(cmd *cobra.Command) (differ.Options, error) {
	ignoreFields, _ := cmd.Flags().GetStringSlice("ignore-fields")
	compareFields, _ := cmd.Flags().GetStringSlice("compare-fields")
	showOnly, _ := cmd.Flags().GetStringSlice("show-only")
	metricsOnly, _ := cmd.Flags().GetBool("metrics-only")
	dimensionsOnly, _ := cmd.Flags().GetBool("dimensions-only")
	extended, _ := cmd.Flags().GetBool("extended-fields")

	if len(ignoreFields) == 0 {
		ignoreFields = cfg.Diff.IgnoreFields
	}

	fieldSet := differ.FieldSet(cfg.Diff.FieldSet)
	if extended {
		fieldSet = differ.FieldSetExtended
	}

	opts := differ.Options{
		IgnoreFields:   ignoreFields,
		CompareFields:  compareFields,
		FieldSet:       fieldSet,
		MetricsOnly:    metricsOnly,
		DimensionsOnly: dimensionsOnly,
		ToolVersion:    Version,
	}
	for _, raw := range showOnly {
		ct, ok := types.ParseChangeType(raw)
		if !ok {
			return differ.Options{}, cjaerrors.New(cjaerrors.KindValidation, fmt.Sprintf("unknown change type %q", raw)).
				WithSolutions("Valid values for --show-only: added, removed, modified, unchanged")
		}
		opts.ShowOnly = append(opts.ShowOnly, ct)
	}
	return opts, nil
}

// loadSide resolves one side of the comparison: a snapshot file, a
// git-friendly export directory, or a live data view.
func loadSide(ctx context.Context, file, dataViewID string) (*types.Snapshot, error) {
	store := storage.NewLocal(log)
	if file != "" {
		info, err := os.Stat(file)
		if err == nil && info.IsDir() {
			return store.LoadGitFriendly(file)
		}
		return store.Load(file)
	}

	client := newAPIClient()
	builder := cja.NewSnapshotBuilder(client, log, Version)
	log.WithField("data_view", dataViewID).Info("fetching live data view")
	return builder.Build(ctx, dataViewID)
}

func renderDiff(cmd *cobra.Command, result *types.DiffResult, breaking []types.BreakingChange) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")
	changesOnly, _ := cmd.Flags().GetBool("changes-only")

	if format == "" && outPath != "" {
		format = formatFromExtension(outPath)
	}
	if format == "" {
		format = cfg.Output.Format
	}

	writer, err := output.NewWriter(output.Format(format), output.Options{
		NoColor:     cfg.Output.NoColor || outPath != "",
		ChangesOnly: changesOnly,
		Breaking:    breaking,
	})
	if err != nil {
		return err
	}

	if outPath == "" {
		return writer.Write(result, cmd.OutOrStdout())
	}
	f, err := os.Create(outPath)
	if err != nil {
		return cjaerrors.Wrap(cjaerrors.KindIO, fmt.Sprintf("cannot create output file %s", outPath), err)
	}
	if err := writer.Write(result, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return cjaerrors.Wrap(cjaerrors.KindIO, fmt.Sprintf("cannot write output file %s", outPath), err)
	}
	fmt.Printf("Report written: %s\n", outPath)
	return nil
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".md":
		return "markdown"
	case ".html", ".htm":
		return "html"
	case ".csv":
		return "csv"
	case ".xlsx":
		return "xlsx"
	default:
		return "console"
	}
}
