package main

import (
	"context"
	"fmt"
	"os"

	"github.com/saforex/saforex-go/internal/config"
	"github.com/saforex/saforex-go/internal/content"
	"github.com/saforex/saforex-go/internal/logger"
	"github.com/saforex/saforex-go/internal/postgrest"
	"github.com/saforex/saforex-go/internal/realtime"
	"github.com/saforex/saforex-go/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	client *postgrest.Client
	store  *storage.S3Store
	hub    *content.Hub

	asJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "saforex",
	Short: "SA-Forex CLI - Browse and publish platform content",
	Long: `SA-Forex CLI provides command-line access to the SA-Forex content
platform: trading signals, market analyses, posts, live streams and the
economic calendar.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
			return err
		}

		client = postgrest.NewClient(cfg.PlatformURL, cfg.AnonKey)

		store, err = storage.NewS3Store(cmd.Context(), cfg.StorageRegion, cfg.CDNBaseURL)
		if err != nil {
			return err
		}

		notifier := realtime.NewClient(cfg.PlatformURL, cfg.AnonKey)
		hub = content.NewHub(cfg, client, notifier, store)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if hub != nil {
			hub.Close()
		}
		_ = logger.Close()
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check connectivity to the platform and object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("table API unreachable: %w", err)
		}
		fmt.Println("table API: ok")

		for _, bucket := range []string{
			content.SignalImagesBucket,
			content.AnalysisMediaBucket,
			content.PostMediaBucket,
		} {
			if err := store.CheckBucketAccess(ctx, bucket); err != nil {
				return err
			}
			fmt.Printf("bucket %s: ok\n", bucket)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Output JSON instead of text")

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(analysesCmd)
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(streamsCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(bannersCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
