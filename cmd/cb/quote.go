package main

import (
	"fmt"

	"github.com/cutboard/cutboard/internal/config"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/pricing"
	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	var (
		configPath string
		basePrice  string
		quantity   int
		mode       string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Preview batch pricing",
		Long:  "Computes the full price breakdown for a base price, quantity and delivery mode without touching the database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := parsePrice(basePrice)
			if err != nil {
				return err
			}
			deliveryMode := models.DeliveryMode(mode)
			if deliveryMode != models.DeliverySequential && deliveryMode != models.DeliverySimultaneous {
				return fmt.Errorf("unknown delivery mode %q", mode)
			}

			// Quote previews work without a config file; fall back to defaults.
			engineCfg := pricing.DefaultConfig()
			if cfg, err := config.Load(configPath); err == nil {
				engineCfg = cfg.Engine()
			}
			if quantity > 1 && !engineCfg.QuantityInRange(quantity) {
				return fmt.Errorf("quantity %d outside policy range %d..%d",
					quantity, engineCfg.MinBatchQuantity, engineCfg.MaxBatchQuantity)
			}

			quote := pricing.Calculate(cents, quantity, deliveryMode, engineCfg)
			printQuote(cmd, &quote)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	cmd.Flags().StringVar(&basePrice, "base-price", "", "price per video, e.g. 100.00 (required)")
	cmd.Flags().IntVarP(&quantity, "quantity", "n", 1, "number of videos")
	cmd.Flags().StringVar(&mode, "delivery", "sequential", "delivery mode (sequential, simultaneous)")
	return cmd
}

// printQuote renders a quote breakdown.
func printQuote(cmd *cobra.Command, q *pricing.Quote) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Quote for %d video(s), %s delivery:\n", q.Quantity, q.DeliveryMode)
	fmt.Fprintf(out, "  Subtotal:        %s", formatCents(q.SubtotalCents))
	if q.DiscountPercent > 0 {
		fmt.Fprintf(out, " (%d%% discount, saving %s)", q.DiscountPercent, formatCents(q.SavingsCents))
	}
	fmt.Fprintln(out)
	if q.UrgencyFeeCents > 0 {
		fmt.Fprintf(out, "  Urgency fee:     %s\n", formatCents(q.UrgencyFeeCents))
	}
	fmt.Fprintf(out, "  Total:           %s (%s per video)\n", formatCents(q.TotalCents), formatCents(q.PricePerVideoCents))
	fmt.Fprintf(out, "  Platform fee:    %s\n", formatCents(q.PlatformFeeCents))
	fmt.Fprintf(out, "  Editor earnings: %s\n", formatCents(q.EditorEarningsCents))
}
