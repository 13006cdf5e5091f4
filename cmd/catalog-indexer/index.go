package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/app"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
	"github.com/kailas-cloud/catalogsearch/internal/repository/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/usecase/indexing"
)

type indexOptions struct {
	dsn       string
	table     string
	workers   int
	batchSize int
	recreate  bool
	quiet     bool
}

func newIndexCmd(root *rootOptions) *cobra.Command {
	opts := &indexOptions{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Load the SQL catalog into the product index",
		Long: `Reads every row of the catalog table, normalizes brand, category and colour,
embeds title and details, and writes the documents to Redis in pipelined batches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.dsn, "dsn", "", "catalog database DSN (overrides catalog.dsn)")
	f.StringVar(&opts.table, "table", "", "catalog table (overrides catalog.table)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "concurrent batches (overrides catalog.workers)")
	f.IntVarP(&opts.batchSize, "batch-size", "b", 0, "documents per batch (overrides catalog.batch_size)")
	f.BoolVar(&opts.recreate, "recreate", false, "drop and recreate the index before loading")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "disable the progress bar")
	return cmd
}

func runIndex(cmd *cobra.Command, root *rootOptions, opts *indexOptions) error {
	cfg, logger, err := root.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if opts.dsn != "" {
		cfg.Catalog.DSN = opts.dsn
	}
	if opts.table != "" {
		cfg.Catalog.Table = opts.table
	}
	if opts.workers > 0 {
		cfg.Catalog.Workers = opts.workers
	}
	if opts.batchSize > 0 {
		cfg.Catalog.BatchSize = opts.batchSize
	}
	if cfg.Catalog.DSN == "" {
		return fmt.Errorf("catalog dsn is required (catalog.dsn or --dsn)")
	}

	ctx := cmd.Context()

	reader, err := catalog.Open(ctx, cfg.Catalog.Driver, cfg.Catalog.DSN, cfg.Catalog.Table)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = reader.Close() }()

	store, err := app.OpenStore(ctx, cfg.Database)
	if err != nil {
		return err //nolint:wrapcheck // already descriptive
	}
	defer store.Close()

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	products := app.NewProductRepo(cfg, store)
	if opts.recreate {
		if err := products.Recreate(ctx); err != nil {
			return fmt.Errorf("recreate index: %w", err)
		}
	} else if _, err := products.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	categories, err := app.CategoryMap(cfg.Search)
	if err != nil {
		return err //nolint:wrapcheck // already descriptive
	}

	var bar *progressbar.ProgressBar
	svc := indexing.New(
		reader, products, app.NewDocumentEmbedder(cfg.Embedding, logger), product.NewNormalizer(categories),
		indexing.WithPoolSize(cfg.Catalog.Workers),
		indexing.WithBatchSize(cfg.Catalog.BatchSize),
		indexing.WithInstruction(cfg.Embedding.DocumentInstruction),
		indexing.WithDimensions(cfg.Embedding.Dimensions),
		indexing.WithLogger(logger),
		indexing.WithProgress(func(n int) {
			if bar != nil {
				_ = bar.Add(n)
			}
		}),
	)

	if !opts.quiet {
		total, err := svc.Total(ctx)
		if err != nil {
			return err //nolint:wrapcheck // already descriptive
		}
		bar = newProgressBar(int64(total))
	}

	logger.Info("Indexing catalog",
		zap.String("table", cfg.Catalog.Table),
		zap.String("index", products.IndexName()),
		zap.Int("workers", cfg.Catalog.Workers),
		zap.Int("batch_size", cfg.Catalog.BatchSize),
	)

	stats, err := svc.Run(ctx)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err //nolint:wrapcheck // already descriptive
	}

	count, err := products.Count(ctx)
	if err != nil {
		logger.Warn("Could not read index size", zap.Error(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d products (%d failed, %d skipped); index %s holds %d documents\n",
		stats.Indexed, stats.Failed, stats.Skipped, products.IndexName(), count)
	if stats.Failed > 0 {
		return fmt.Errorf("%d products failed to index", stats.Failed)
	}
	return nil
}

func newProgressBar(total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("products"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprint(os.Stderr, "\n") }),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
