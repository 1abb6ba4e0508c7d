package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cjatools/cjadrift/internal/cja"
	"github.com/cjatools/cjadrift/internal/storage"
)

func newSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture a data view into a snapshot file",
		Long: `Fetch a data view's metadata, metrics, and dimensions from the CJA API
and persist them as a snapshot.

By default the snapshot is written to the configured snapshot directory as
a single JSON file. With --git-dir it is additionally exported as three
sorted JSON files (metrics.json, dimensions.json, metadata.json) suitable
for committing to version control.`,
		Example: `  # Capture into the snapshot directory
  cjadrift snapshot --dataview dv_12345

  # Capture to an explicit file
  cjadrift snapshot --dataview dv_12345 -o baseline.json

  # Keep only the five most recent snapshots of this view
  cjadrift snapshot --dataview dv_12345 --keep-last 5

  # Export for Git history
  cjadrift snapshot --dataview dv_12345 --git-dir ./snapshots`,
		RunE: runSnapshot,
	}

	cmd.Flags().String("dataview", "", "data view ID to capture")
	cmd.Flags().StringP("output", "o", "", "output file (default: <snapshot-dir>/<id>-<timestamp>.json)")
	cmd.Flags().String("git-dir", "", "also export git-friendly files under this directory")
	cmd.Flags().Int("keep-last", 0, "delete all but the N most recent snapshots of this data view (0 disables)")
	cmd.MarkFlagRequired("dataview")

	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	dataViewID, _ := cmd.Flags().GetString("dataview")
	outputPath, _ := cmd.Flags().GetString("output")
	gitDir, _ := cmd.Flags().GetString("git-dir")
	keepLast, _ := cmd.Flags().GetInt("keep-last")
	if keepLast == 0 {
		keepLast = cfg.Storage.KeepLast
	}
	if gitDir == "" {
		gitDir = cfg.Storage.GitDir
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	client := newAPIClient()
	builder := cja.NewSnapshotBuilder(client, log, Version)

	log.WithField("data_view", dataViewID).Info("capturing snapshot")
	snapshot, err := builder.Build(ctx, dataViewID)
	if err != nil {
		return err
	}

	store := storage.NewLocal(log)
	if outputPath == "" {
		outputPath = storage.DefaultSnapshotPath(cfg.Storage.SnapshotDir, snapshot)
	}
	written, err := store.Save(snapshot, outputPath)
	if err != nil {
		return err
	}
	fmt.Printf("Snapshot written: %s (%d metrics, %d dimensions)\n",
		written, len(snapshot.Metrics), len(snapshot.Dimensions))

	if gitDir != "" {
		dir, err := store.ExportGitFriendly(snapshot, gitDir)
		if err != nil {
			return err
		}
		fmt.Printf("Git-friendly export: %s\n", dir)
	}

	if deleted := store.ApplyRetention(cfg.Storage.SnapshotDir, dataViewID, keepLast); len(deleted) > 0 {
		fmt.Printf("Retention removed %d old snapshot(s)\n", len(deleted))
	}
	return nil
}

func newAPIClient() cja.Client {
	return cja.NewHTTPClient(cja.HTTPConfig{
		BaseURL:     cfg.API.BaseURL,
		AccessToken: cfg.API.AccessToken,
		APIKey:      cfg.API.APIKey,
		OrgID:       cfg.API.OrgID,
		Timeout:     time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		Retry: cja.RetryConfig{
			MaxAttempts: cfg.API.RetryAttempts,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    10 * time.Second,
		},
	}, log)
}
