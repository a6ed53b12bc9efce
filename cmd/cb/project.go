package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cutboard/cutboard/internal/batch"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/project"
	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project management commands",
	}

	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectShowCmd())
	cmd.AddCommand(newProjectStatusCmd())
	cmd.AddCommand(newProjectArchiveCmd())
	cmd.AddCommand(newProjectUnarchiveCmd())
	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	var (
		configPath   string
		title        string
		description  string
		creator      string
		basePrice    string
		deadlineDays int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new draft project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := parsePrice(basePrice)
			if err != nil {
				return err
			}
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			p, err := project.Create(gormDB, project.CreateOpts{
				Title:          title,
				Description:    description,
				CreatorID:      creator,
				BasePriceCents: cents,
				DeadlineDays:   deadlineDays,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s per video)\n", p.ID, formatCents(p.BasePriceCents))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	cmd.Flags().StringVar(&title, "title", "", "project title (required)")
	cmd.Flags().StringVar(&description, "description", "", "detailed description")
	cmd.Flags().StringVar(&creator, "creator", "", "creator ID (required)")
	cmd.Flags().StringVar(&basePrice, "base-price", "", "price per video, e.g. 100.00 (required)")
	cmd.Flags().IntVar(&deadlineDays, "deadline-days", 0, "days until the target delivery date")
	return cmd
}

func newProjectListCmd() *cobra.Command {
	var (
		configPath string
		status     string
		creator    string
		editor     string
		archived   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			filters := project.ListFilters{
				Status:    models.ProjectStatus(status),
				CreatorID: creator,
				EditorID:  editor,
			}
			if !archived {
				f := false
				filters.Archived = &f
			}
			projects, err := project.List(gormDB, filters)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tBATCH\tPRICE\tEDITOR")
			for i := range projects {
				p := &projects[i]
				videos, err := batch.Videos(gormDB, p.ID)
				if err != nil {
					return err
				}
				batchCol := "-"
				if p.IsBatch {
					progress := batch.ComputeProgress(videos)
					batchCol = fmt.Sprintf("%d/%d", progress.Completed, progress.Total)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					p.ID, truncate(p.Title, 40), project.EffectiveStatus(p, videos),
					batchCol, formatCents(p.BasePriceCents), p.AssignedEditorID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by stored status")
	cmd.Flags().StringVar(&creator, "creator", "", "filter by creator ID")
	cmd.Flags().StringVar(&editor, "editor", "", "filter by assigned editor ID")
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived projects")
	return cmd
}

func newProjectShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			p, err := project.Get(gormDB, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			effective := project.EffectiveStatus(p, p.Videos)
			fmt.Fprintf(out, "%s: %s\n", p.ID, p.Title)
			fmt.Fprintf(out, "Status: %s", effective)
			if p.IsArchived {
				fmt.Fprintf(out, " (archived)")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Creator: %s\n", p.CreatorID)
			if p.AssignedEditorID != "" {
				fmt.Fprintf(out, "Editor: %s\n", p.AssignedEditorID)
			}

			quote := project.Quote(p, cfg.Engine())
			fmt.Fprintf(out, "Price: %s total (%s per video", formatCents(quote.TotalCents), formatCents(quote.PricePerVideoCents))
			if quote.DiscountPercent > 0 {
				fmt.Fprintf(out, ", %d%% off", quote.DiscountPercent)
			}
			fmt.Fprintln(out, ")")

			if p.IsBatch {
				progress := batch.ComputeProgress(p.Videos)
				fmt.Fprintf(out, "Batch: %d videos, %s delivery, %d%% complete\n",
					p.BatchQuantity, p.BatchDeliveryMode, progress.Percentage)
				if hasDelayed, delayedCount := batch.ComputeDelay(p.Videos, p.DeadlineDays); hasDelayed {
					fmt.Fprintf(out, "Delayed: %d video(s) outstanding, %d day(s) overdue\n", delayedCount, -p.DeadlineDays)
				}
				for _, v := range p.Videos {
					line := fmt.Sprintf("  %2d. %s [%s]", v.SequenceOrder, v.Title, v.Status)
					if v.RevisionCount > 0 {
						line += fmt.Sprintf(" (%d revision(s))", v.RevisionCount)
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	return cmd
}

func newProjectStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status <project-id> <new-status>",
		Short: "Move a single-video project to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			next := models.ProjectStatus(strings.ToLower(args[1]))
			if err := project.UpdateStatus(gormDB, args[0], next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project %s → %s\n", args[0], next)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	return cmd
}

func newProjectArchiveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "archive <project-id>",
		Short: "Archive a finished project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := batch.Archive(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	return cmd
}

func newProjectUnarchiveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "unarchive <project-id>",
		Short: "Restore an archived project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := batch.Unarchive(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unarchived %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	return cmd
}
