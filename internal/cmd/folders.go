package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openshelf/shelfctl/internal/observability"
	"github.com/openshelf/shelfctl/pkg/catalog"
	"github.com/openshelf/shelfctl/pkg/folder"
	"github.com/openshelf/shelfctl/pkg/output"
)

var foldersCmd = &cobra.Command{
	Use:   "folders <bucket>",
	Short: "Derive the virtual folder tree of a bucket",
	Long: `Derive the folder hierarchy implied by a bucket's flat keys and report
per-folder statistics: direct file count, immediate subfolder count, and
total byte footprint.

The store has no real directories - every folder in the output is
reconstructed from shared key prefixes at request time. By default the full
transitive closure of implied folders is returned; --no-subfolders prunes
the set to one tree level relative to --prefix (which must then end in /).

Examples:
  shelfctl folders my-bucket
  shelfctl folders my-bucket --prefix logs/2025/
  shelfctl folders my-bucket --prefix logs/ --no-subfolders
  shelfctl folders my-bucket --output table
  shelfctl folders my-bucket --include 'media/**' --exclude '**/tmp/'`,
	Args: cobra.ExactArgs(1),
	RunE: runFolders,
}

var (
	foldersPrefix       string
	foldersNoSubfolders bool
	foldersParallel     int
	foldersQPS          float64
	foldersOutput       string
	foldersIncludes     []string
	foldersExcludes     []string
	foldersCatalog      catalogFlags
)

func init() {
	rootCmd.AddCommand(foldersCmd)

	foldersCmd.Flags().StringVar(&foldersPrefix, "prefix", "", "Scope derivation to keys starting with this prefix")
	foldersCmd.Flags().BoolVar(&foldersNoSubfolders, "no-subfolders", false, "Prune the result to one tree level relative to --prefix")
	foldersCmd.Flags().IntVar(&foldersParallel, "parallel", folder.DefaultParallel, "Max concurrent per-folder stat queries")
	foldersCmd.Flags().Float64Var(&foldersQPS, "qps", 0, "Rate limit for catalog queries (0=unlimited)")
	foldersCmd.Flags().StringVar(&foldersOutput, "output", "jsonl", "Output format (jsonl|table)")
	foldersCmd.Flags().StringArrayVar(&foldersIncludes, "include", nil, "Include glob pattern for displayed folders (repeatable)")
	foldersCmd.Flags().StringArrayVar(&foldersExcludes, "exclude", nil, "Exclude glob pattern for displayed folders (repeatable)")

	foldersCmd.Flags().StringVar(&foldersCatalog.backend, "backend", "", "Catalog backend (postgres|s3|memory)")
	foldersCmd.Flags().StringVar(&foldersCatalog.dsn, "dsn", "", "Postgres connection string")
	foldersCmd.Flags().StringVar(&foldersCatalog.s3Region, "s3-region", "", "S3 region")
	foldersCmd.Flags().StringVar(&foldersCatalog.s3Endpoint, "s3-endpoint", "", "Custom S3 endpoint")
	foldersCmd.Flags().StringVar(&foldersCatalog.s3Profile, "s3-profile", "", "AWS profile")
	foldersCmd.Flags().BoolVar(&foldersCatalog.s3PathStyle, "s3-path-style", false, "Force path-style S3 URLs")
}

func runFolders(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	bucket := args[0]

	if foldersOutput != "jsonl" && foldersOutput != "table" {
		return exitError(foundry.ExitInvalidArgument, "Invalid --output value", fmt.Errorf("expected jsonl or table"))
	}

	allowPath, err := buildScopeFilter(foldersIncludes, foldersExcludes)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid include/exclude patterns", err)
	}

	cat, backend, err := openCatalog(ctx, loadedConfig, foldersCatalog)
	if err != nil {
		observability.CLILogger.Error("Failed to open catalog", zap.Error(err))
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to open catalog", err)
	}
	defer func() { _ = cat.Close() }()

	svc := folder.NewService(cat, folder.Options{
		Parallel:         foldersParallel,
		QueriesPerSecond: foldersQPS,
		Logger:           observability.CLILogger,
	})

	start := time.Now()
	listing, err := svc.ListFolders(ctx, bucket, foldersPrefix, !foldersNoSubfolders)
	if err != nil {
		observability.CLILogger.Error("Folder listing failed",
			zap.String("bucket", bucket),
			zap.String("prefix", foldersPrefix),
			zap.Error(err),
		)
		return foldersExitError(err)
	}

	folders := listing.Folders
	if allowPath != nil {
		kept := make([]folder.Stats, 0, len(folders))
		for _, f := range folders {
			if allowPath(f.Path) {
				kept = append(kept, f)
			}
		}
		folders = kept
	}

	if foldersOutput == "table" {
		return outputFoldersTable(os.Stdout, folders)
	}
	return outputFoldersJSONL(cmd, backend, listing, folders, time.Since(start))
}

// foldersExitError maps listing failures to exit codes.
func foldersExitError(err error) error {
	switch {
	case catalog.IsBucketNotFound(err):
		return exitError(foundry.ExitInvalidArgument, "Bucket not found", err)
	case folder.IsPrefixNotBoundary(err):
		return exitError(foundry.ExitInvalidArgument, "Invalid prefix for shallow listing", err)
	default:
		return exitError(foundry.ExitExternalServiceUnavailable, "Folder listing failed", err)
	}
}

// buildScopeFilter compiles include/exclude globs into a display predicate.
// Returns nil when no patterns are given so the unfiltered listing skips a
// copy.
func buildScopeFilter(includes, excludes []string) (func(path string) bool, error) {
	if len(includes) == 0 && len(excludes) == 0 {
		return nil, nil
	}

	for _, p := range append(append([]string{}, includes...), excludes...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}

	return func(path string) bool {
		// Match against the path without its trailing slash so "media/**"
		// style patterns behave the way they do for object keys.
		trimmed := path
		if len(trimmed) > 0 && trimmed[len(trimmed)-1] == '/' {
			trimmed = trimmed[:len(trimmed)-1]
		}

		if len(includes) > 0 {
			matched := false
			for _, p := range includes {
				if ok, _ := doublestar.Match(p, trimmed); ok {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}

		for _, p := range excludes {
			if ok, _ := doublestar.Match(p, trimmed); ok {
				return false
			}
		}
		return true
	}, nil
}

func outputFoldersJSONL(cmd *cobra.Command, backend catalog.BackendType, listing *folder.Listing, folders []folder.Stats, dur time.Duration) error {
	ctx := cmd.Context()
	jobID := uuid.New().String()
	w := output.NewJSONLWriter(os.Stdout, jobID, backend.String())

	var files, bytesTotal int64
	for i := range folders {
		f := &folders[i]
		if err := w.WriteFolder(ctx, &output.FolderRecord{
			Bucket:            listing.Bucket,
			Path:              f.Path,
			FileCount:         f.FileCount,
			SubfolderCount:    f.SubfolderCount,
			TotalSize:         f.TotalSize,
			HumanReadableSize: f.HumanReadableSize,
		}); err != nil {
			return err
		}
		files += f.FileCount
		bytesTotal += f.TotalSize
	}

	return w.WriteSummary(ctx, &output.SummaryRecord{
		Bucket:        listing.Bucket,
		Prefix:        listing.Prefix,
		Folders:       int64(len(folders)),
		Files:         files,
		BytesTotal:    bytesTotal,
		Duration:      dur,
		DurationHuman: formatDuration(dur),
	})
}

func outputFoldersTable(out io.Writer, folders []folder.Stats) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "PATH\tFILES\tSUBFOLDERS\tSIZE"); err != nil {
		return err
	}
	for _, f := range folders {
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
			f.Path, f.FileCount, f.SubfolderCount, f.HumanReadableSize,
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}
