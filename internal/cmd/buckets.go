package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openshelf/shelfctl/internal/observability"
	"github.com/openshelf/shelfctl/pkg/catalog"
	"github.com/openshelf/shelfctl/pkg/folder"
	"github.com/openshelf/shelfctl/pkg/output"
)

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List buckets with object counts and sizes",
	Long: `List all buckets in the catalog with per-bucket object counts and total
byte footprint.

Examples:
  shelfctl buckets
  shelfctl buckets --output table`,
	Args: cobra.NoArgs,
	RunE: runBuckets,
}

var (
	bucketsOutput  string
	bucketsCatalog catalogFlags
)

func init() {
	rootCmd.AddCommand(bucketsCmd)

	bucketsCmd.Flags().StringVar(&bucketsOutput, "output", "jsonl", "Output format (jsonl|table)")
	bucketsCmd.Flags().StringVar(&bucketsCatalog.backend, "backend", "", "Catalog backend (postgres|s3|memory)")
	bucketsCmd.Flags().StringVar(&bucketsCatalog.dsn, "dsn", "", "Postgres connection string")
}

func runBuckets(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if bucketsOutput != "jsonl" && bucketsOutput != "table" {
		return exitError(foundry.ExitInvalidArgument, "Invalid --output value", fmt.Errorf("expected jsonl or table"))
	}

	cat, backend, err := openCatalog(ctx, loadedConfig, bucketsCatalog)
	if err != nil {
		observability.CLILogger.Error("Failed to open catalog", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to open catalog", err)
	}
	defer func() { _ = cat.Close() }()

	lister, ok := cat.(catalog.BucketLister)
	if !ok {
		return exitError(foundry.ExitInvalidArgument, "Backend does not support bucket listing",
			fmt.Errorf("backend %s has no bucket enumeration", backend))
	}

	summaries, err := lister.ListBuckets(ctx)
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to list buckets", err)
	}

	if bucketsOutput == "table" {
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(tw, "BUCKET\tOBJECTS\tSIZE"); err != nil {
			return err
		}
		for _, s := range summaries {
			if _, err := fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Name, s.ObjectCount, folder.FormatSize(s.TotalSize)); err != nil {
				return err
			}
		}
		return tw.Flush()
	}

	jobID := uuid.New().String()
	w := output.NewJSONLWriter(os.Stdout, jobID, backend.String())
	for _, s := range summaries {
		if err := w.WriteBucket(ctx, &output.BucketRecord{
			Name:              s.Name,
			ObjectCount:       s.ObjectCount,
			TotalSize:         s.TotalSize,
			HumanReadableSize: folder.FormatSize(s.TotalSize),
		}); err != nil {
			return err
		}
	}
	return nil
}
