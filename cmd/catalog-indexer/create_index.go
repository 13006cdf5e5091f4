package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/app"
)

func newCreateIndexCmd(root *rootOptions) *cobra.Command {
	var recreate bool

	cmd := &cobra.Command{
		Use:   "create-index",
		Short: "Create the product search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			store, err := app.OpenStore(ctx, cfg.Database)
			if err != nil {
				return err //nolint:wrapcheck // already descriptive
			}
			defer store.Close()

			products := app.NewProductRepo(cfg, store)
			out := cmd.OutOrStdout()

			if recreate {
				if err := products.Recreate(ctx); err != nil {
					return fmt.Errorf("recreate index: %w", err)
				}
				logger.Info("Index recreated", zap.String("index", products.IndexName()))
				fmt.Fprintf(out, "Recreated index %s\n", products.IndexName())
				return nil
			}

			created, err := products.EnsureIndex(ctx)
			if err != nil {
				return fmt.Errorf("create index: %w", err)
			}
			if created {
				fmt.Fprintf(out, "Created index %s\n", products.IndexName())
			} else {
				fmt.Fprintf(out, "Index %s already exists (use --recreate to drop it)\n", products.IndexName())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recreate, "recreate", false, "drop the index and its documents first")
	return cmd
}
