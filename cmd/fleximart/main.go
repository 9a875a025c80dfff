// Command fleximart runs the FlexiMart batch pipeline and the product-catalog
// query operations.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleximart/fleximart-etl/internal/catalog"
	"github.com/fleximart/fleximart-etl/internal/config"
	"github.com/fleximart/fleximart-etl/internal/obs"
	"github.com/fleximart/fleximart-etl/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		obs.Logger.Error("command_failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fleximart",
		Short: "FlexiMart data-cleaning and loading pipeline",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			obs.InitLogger()
		},
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newCatalogCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute the extract, transform, load and report stages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return pipeline.New(cfg).Run(cmd.Context())
		},
	}
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Ad-hoc queries against the product catalog document store",
	}
	cmd.AddCommand(
		newElectronicsCmd(),
		newTopRatedCmd(),
		newAddReviewCmd(),
		newAvgPriceCmd(),
	)
	return cmd
}

// withCatalog connects to the document store for the duration of one
// operation.
func withCatalog(ctx context.Context, fn func(context.Context, *catalog.Catalog) error) error {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	client, err := catalog.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()
	return fn(ctx, catalog.New(client.Database(cfg.MongoDB)))
}

func newElectronicsCmd() *cobra.Command {
	var maxPrice float64
	cmd := &cobra.Command{
		Use:   "electronics",
		Short: "List Electronics products under a price ceiling",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), func(ctx context.Context, c *catalog.Catalog) error {
				products, err := c.CheapElectronics(ctx, maxPrice)
				if err != nil {
					return err
				}
				for _, p := range products {
					fmt.Printf("%s\t%.2f\tstock %d\n", p.Name, p.Price, p.Stock)
				}
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&maxPrice, "max-price", 50000, "Price ceiling")
	return cmd
}

func newTopRatedCmd() *cobra.Command {
	var minRating float64
	cmd := &cobra.Command{
		Use:   "top-rated",
		Short: "List products with an average review rating above a threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), func(ctx context.Context, c *catalog.Catalog) error {
				products, err := c.HighRatedProducts(ctx, minRating)
				if err != nil {
					return err
				}
				for _, p := range products {
					fmt.Printf("%s\t%s\tavg %.2f\n", p.ProductID, p.Name, p.AvgRating)
				}
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&minRating, "min-rating", 4.0, "Minimum average rating")
	return cmd
}

func newAddReviewCmd() *cobra.Command {
	var (
		productID string
		user      string
		rating    int
		comment   string
	)
	cmd := &cobra.Command{
		Use:   "add-review",
		Short: "Append a review to a product document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), func(ctx context.Context, c *catalog.Catalog) error {
				matched, modified, err := c.AddReview(ctx, productID, catalog.Review{
					User:    user,
					Rating:  rating,
					Comment: comment,
				})
				if err != nil {
					return err
				}
				fmt.Printf("matched: %d, modified: %d\n", matched, modified)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&productID, "product", "", "Catalog product id (required)")
	cmd.Flags().StringVar(&user, "user", "", "Reviewer id (required)")
	cmd.Flags().IntVar(&rating, "rating", 5, "Rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "Review text")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newAvgPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avg-price",
		Short: "Average price and product count per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), func(ctx context.Context, c *catalog.Catalog) error {
				rows, err := c.AvgPriceByCategory(ctx)
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Printf("%s\tavg %.2f\t%d products\n", r.Category, r.AvgPrice, r.ProductCount)
				}
				return nil
			})
		},
	}
}
