package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cjatools/cjadrift/internal/cache"
	"github.com/cjatools/cjadrift/internal/cja"
	"github.com/cjatools/cjadrift/internal/storage"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots or remote data views",
		Long: `List the snapshots in the snapshot directory, newest first.

With --remote, list the data views visible to the configured API
credentials instead.`,
		Example: `  # Stored snapshots
  cjadrift list

  # Snapshots from another directory
  cjadrift list --dir ./snapshots

  # Data views available in the organization
  cjadrift list --remote`,
		RunE: runList,
	}

	cmd.Flags().String("dir", "", "snapshot directory (default: configured snapshot_dir)")
	cmd.Flags().Bool("remote", false, "list data views from the API instead of local snapshots")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	remote, _ := cmd.Flags().GetBool("remote")
	if remote {
		return listDataViews(cmd)
	}

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = cfg.Storage.SnapshotDir
	}

	store := storage.NewLocal(log)
	infos, err := store.List(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Printf("No snapshots found in %s\n", dir)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATA VIEW\tNAME\tCREATED\tMETRICS\tDIMENSIONS\tFILE")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			info.DataViewID,
			info.DataViewName,
			info.CreatedAt.Local().Format("2006-01-02 15:04"),
			info.MetricsCount,
			info.DimensionsCount,
			info.FilePath,
		)
	}
	return w.Flush()
}

func listDataViews(cmd *cobra.Command) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	client := newAPIClient()
	lister := cja.NewCachingLister(client, cache.NewMemoryCache(cache.Config{
		MaxItems:   cfg.Cache.MaxItems,
		DefaultTTL: cfg.Cache.DefaultTTL,
	}))

	views, err := lister.ListDataViews(ctx)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Println("No data views visible to these credentials")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tOWNER")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Name, v.Owner)
	}
	return w.Flush()
}
