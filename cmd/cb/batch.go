package main

import (
	"fmt"
	"strings"

	"github.com/cutboard/cutboard/internal/batch"
	"github.com/cutboard/cutboard/internal/lifecycle"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/project"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Batch management commands",
	}

	cmd.AddCommand(newBatchConfigureCmd())
	cmd.AddCommand(newBatchResizeCmd())
	cmd.AddCommand(newBatchDeliveryCmd())
	cmd.AddCommand(newBatchVideoStatusCmd())
	cmd.AddCommand(newBatchProgressCmd())
	return cmd
}

// parseVideoTitles splits a comma-separated title list into specs.
func parseVideoTitles(titles string) []batch.VideoSpec {
	if titles == "" {
		return nil
	}
	parts := strings.Split(titles, ",")
	specs := make([]batch.VideoSpec, len(parts))
	for i, t := range parts {
		specs[i] = batch.VideoSpec{Title: strings.TrimSpace(t)}
	}
	return specs
}

func newBatchConfigureCmd() *cobra.Command {
	var (
		configPath string
		quantity   int
		mode       string
		titles     string
	)

	cmd := &cobra.Command{
		Use:   "configure <project-id>",
		Short: "Turn a draft project into a priced batch",
		Long:  "Creates the numbered video slots, prices the batch, and opens the project for applications.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			quote, err := batch.Configure(gormDB, args[0], batch.ConfigureOpts{
				Quantity:     quantity,
				DeliveryMode: models.DeliveryMode(mode),
				Videos:       parseVideoTitles(titles),
				Pricing:      cfg.Engine(),
			})
			if err != nil {
				return err
			}
			printQuote(cmd, quote)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	cmd.Flags().IntVarP(&quantity, "quantity", "n", 0, "number of videos (required)")
	cmd.Flags().StringVar(&mode, "delivery", "sequential", "delivery mode (sequential, simultaneous)")
	cmd.Flags().StringVar(&titles, "titles", "", "comma-separated video titles (defaults to Video N)")
	cmd.Args = cobra.ExactArgs(1)
	return cmd
}

func newBatchResizeCmd() *cobra.Command {
	var (
		configPath string
		quantity   int
		titles     string
	)

	cmd := &cobra.Command{
		Use:   "resize <project-id>",
		Short: "Change a batch's video count",
		Long:  "Replaces the video set with a freshly numbered one and reprices. Only possible before work starts.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			quote, err := batch.Resize(gormDB, args[0], quantity, parseVideoTitles(titles), cfg.Engine())
			if err != nil {
				return err
			}
			printQuote(cmd, quote)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	cmd.Flags().IntVarP(&quantity, "quantity", "n", 0, "new number of videos (required)")
	cmd.Flags().StringVar(&titles, "titles", "", "comma-separated video titles")
	return cmd
}

func newBatchDeliveryCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delivery <project-id> <sequential|simultaneous>",
		Short: "Switch a batch's delivery mode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			quote, err := project.SetDeliveryMode(gormDB, args[0], models.DeliveryMode(args[1]), cfg.Engine())
			if err != nil {
				return err
			}
			printQuote(cmd, quote)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	return cmd
}

func newBatchVideoStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "video-status <video-id> <new-status>",
		Short: "Move one video through the delivery workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			next := lifecycle.Status(strings.ToLower(args[1]))
			if err := batch.SetVideoStatus(gormDB, args[0], next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Video %s → %s\n", args[0], next)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	return cmd
}

func newBatchProgressCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "progress <project-id>",
		Short: "Show a batch's progress summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			videos, err := batch.Videos(gormDB, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := batch.ComputeProgress(videos)
			fmt.Fprintf(out, "Status: %s\n", batch.AggregatedStatus(videos))
			fmt.Fprintf(out, "Progress: %d/%d completed (%d%%)\n", p.Completed, p.Total, p.Percentage)
			if p.InProgress > 0 {
				fmt.Fprintf(out, "  %d in progress\n", p.InProgress)
			}
			if p.InReview > 0 {
				fmt.Fprintf(out, "  %d in review\n", p.InReview)
			}
			if p.RevisionRequested > 0 {
				fmt.Fprintf(out, "  %d awaiting revisions\n", p.RevisionRequested)
			}
			if p.Pending > 0 {
				fmt.Fprintf(out, "  %d pending\n", p.Pending)
			}
			if p.Cancelled > 0 {
				fmt.Fprintf(out, "  %d cancelled\n", p.Cancelled)
			}
			if batch.CanArchive(videos) {
				fmt.Fprintln(out, "Archivable: yes")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	return cmd
}
