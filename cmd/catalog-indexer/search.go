package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/catalogsearch/internal/app"
	"github.com/kailas-cloud/catalogsearch/internal/config"
	"github.com/kailas-cloud/catalogsearch/internal/domain/query"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

type searchOptions struct {
	size     int
	brand    string
	category string
	minPrice float64
	maxPrice float64
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one hybrid search against the index",
		Example: `  catalog-indexer search "nike running shoes under 3000"
  catalog-indexer search "kurta" --brand biba --max-price 1500`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			req, err := opts.request(cmd, strings.Join(args, " "), cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := app.OpenStore(ctx, cfg.Database)
			if err != nil {
				return err //nolint:wrapcheck // already descriptive
			}
			defer store.Close()

			metrics.RegisterEmbeddingMetrics()
			metrics.RegisterSearchMetrics()

			svc, err := app.NewSearchService(cfg, store, app.NewQueryEmbedder(cfg, store, logger))
			if err != nil {
				return err //nolint:wrapcheck // already descriptive
			}

			resp, err := svc.Search(ctx, req)
			if err != nil {
				return err //nolint:wrapcheck // already descriptive
			}
			return printResults(cmd.OutOrStdout(), resp)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.size, "size", "n", 0, "number of results (defaults to search.default_size)")
	f.StringVar(&opts.brand, "brand", "", "explicit brand filter")
	f.StringVar(&opts.category, "category", "", "explicit category filter")
	f.Float64Var(&opts.minPrice, "min-price", 0, "explicit minimum selling price")
	f.Float64Var(&opts.maxPrice, "max-price", 0, "explicit maximum selling price")
	return cmd
}

func (o *searchOptions) request(cmd *cobra.Command, q string, cfg config.Config) (request.Request, error) {
	size := o.size
	if !cmd.Flags().Changed("size") {
		size = cfg.Search.DefaultSize
	}

	var minPrice, maxPrice *float64
	if cmd.Flags().Changed("min-price") {
		minPrice = &o.minPrice
	}
	if cmd.Flags().Changed("max-price") {
		maxPrice = &o.maxPrice
	}

	req, err := request.New(q, o.brand, o.category, minPrice, maxPrice, size)
	if err != nil {
		return request.Request{}, err //nolint:wrapcheck // validation message is user-facing
	}
	return req, nil
}

func printResults(out io.Writer, resp searchuc.Response) error {
	printUnderstanding(out, resp.Understanding)

	if len(resp.Results) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tPRICE\tMRP\tBRAND\tTITLE")
	for i := range resp.Results {
		r := &resp.Results[i]
		fmt.Fprintf(tw, "%d\t%.4f\t%s\t%s\t%s\t%s\n",
			i+1, r.Score(), money(r.SellingPrice()), money(r.MRP()), r.Brand(), r.Title())
	}
	return tw.Flush() //nolint:wrapcheck // terminal output
}

func printUnderstanding(out io.Writer, u query.Understanding) {
	parts := make([]string, 0, 5)
	if u.Filters.Brand != "" {
		parts = append(parts, "brand="+u.Filters.Brand)
	}
	if u.Filters.Category != "" {
		parts = append(parts, "category="+u.Filters.Category)
	}
	if u.Filters.MinPrice != nil {
		parts = append(parts, "min_price="+money(u.Filters.MinPrice))
	}
	if u.Filters.MaxPrice != nil {
		parts = append(parts, "max_price="+money(u.Filters.MaxPrice))
	}
	parts = append(parts, strconv.Quote(u.EmbeddingText()))
	fmt.Fprintf(out, "Query: %s\n\n", strings.Join(parts, " "))
}

func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
