package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cutboard/cutboard/internal/config"
	"github.com/cutboard/cutboard/internal/dashboard"
	"github.com/cutboard/cutboard/internal/notify"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Cutboard API server",
		Long:  "Launches the dashboard API, the SSE event stream, and the notification watcher.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cutboard.yaml", "path to Cutboard config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if port <= 0 {
		port = cfg.Server.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	startNotifications(ctx, cmd, cfg, gormDB)

	return dashboard.Start(ctx, dashboard.StartOpts{
		DB:      gormDB,
		Port:    port,
		Pricing: cfg.Engine(),
		Out:     out,
	})
}

// startNotifications wires the watcher and delay digest to any configured
// chat senders. Without senders both loops stay off.
func startNotifications(ctx context.Context, cmd *cobra.Command, cfg *config.Config, gormDB *gorm.DB) {
	out := cmd.OutOrStdout()

	var senders []notify.Sender
	if cfg.Notify.SlackToken != "" {
		s, err := notify.NewSlackSender(notify.SlackOpts{
			BotToken:  cfg.Notify.SlackToken,
			ChannelID: cfg.Notify.SlackChannel,
		})
		if err != nil {
			fmt.Fprintf(out, "slack disabled: %v\n", err)
		} else {
			senders = append(senders, s)
		}
	}
	if cfg.Notify.DiscordToken != "" {
		d, err := notify.NewDiscordSender(notify.DiscordOpts{
			BotToken:  cfg.Notify.DiscordToken,
			ChannelID: cfg.Notify.DiscordChannel,
		})
		if err != nil {
			fmt.Fprintf(out, "discord disabled: %v\n", err)
		} else {
			senders = append(senders, d)
		}
	}
	if len(senders) == 0 {
		return
	}

	notifier := notify.NewNotifier(senders...)
	events := make(chan notify.Event, 64)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-events:
				notifier.Publish(ctx, evt)
			}
		}
	}()

	watcher := notify.NewWatcher(gormDB, cfg.PollInterval())
	go func() {
		if err := watcher.Run(ctx, events); err != nil && ctx.Err() == nil {
			fmt.Fprintf(out, "watcher stopped: %v\n", err)
		}
	}()

	if cfg.Notify.DigestCron != "" {
		go func() {
			if err := notify.RunDigest(ctx, gormDB, cfg.Notify.DigestCron, events); err != nil && ctx.Err() == nil {
				fmt.Fprintf(out, "digest stopped: %v\n", err)
			}
		}()
	}

	fmt.Fprintf(out, "Notifications enabled (%d sender(s))\n", len(senders))
}
