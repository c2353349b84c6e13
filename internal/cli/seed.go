package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"brewleaf/internal/catalog/seed"
	"brewleaf/pkg/requestcontext"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, categories and products",
		Long:  "Load the built-in catalog, or a YAML document given with --file. Rows that already exist are skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := seed.Load(file)
			if err != nil {
				return err
			}
			a, closeFn, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := a.Seed(requestcontext.WithTime(cmd.Context(), time.Now()), doc)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "users: %d, categories: %d, products: %d, skipped: %d\n",
				res.Users, res.Categories, res.Products, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed document (defaults to the built-in catalog)")
	return cmd
}

func newRecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-ratings",
		Short: "Rebuild every product's rating aggregate from its reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeFn, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := a.Reviews.RecomputeAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("recompute failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recomputed %d products\n", n)
			return nil
		},
	}
}
