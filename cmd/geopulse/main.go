package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/geopulse/internal/app"
	"github.com/Adda-Baaj/geopulse/internal/config"
	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "geopulse: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "geopulse",
		Short:         "Geopolitical news terminal backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), relayCmd(), fetchCmd(), weatherCmd())
	return root
}

// bootstrap loads config and the zap logger shared by every command.
func bootstrap() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.Init(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Close()
			logger.InfoObj("geopulse api starting", "config", map[string]any{
				"http_addr":     cfg.HTTPAddr,
				"use_mock_data": cfg.UseMockData,
				"storage_type":  cfg.StorageType,
			})

			ctx, stop := signalContext()
			defer stop()

			api, err := app.NewAPI(cfg, log)
			if err != nil {
				logger.ErrorObj("failed to initialize api", "error", err)
				return err
			}
			return api.Run(ctx)
		},
	}
}

func relayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Relay fresh feed items to the configured publishers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Close()
			logger.InfoObj("geopulse relay starting", "config", map[string]any{
				"regions":     cfg.RelayRegions,
				"crisis_mode": cfg.RelayCrisisMode,
			})

			ctx, stop := signalContext()
			defer stop()

			relay, err := app.NewRelay(ctx, cfg, log)
			if err != nil {
				logger.ErrorObj("failed to initialize relay", "error", err)
				return err
			}
			if err := relay.Run(ctx); err != nil {
				return fmt.Errorf("relay run: %w", err)
			}
			return nil
		},
	}
}

func fetchCmd() *cobra.Command {
	var (
		region string
		opts   domain.FetchOptions
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Print one page of the aggregated feed as JSON",
		Example: `  geopulse fetch --region "Middle East"
  geopulse fetch --query "grain corridor" --page 2
  geopulse fetch --crisis`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := domain.ParseRegion(region)
			if err != nil {
				return err
			}
			opts.Region = r

			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Close()

			svc, err := app.NewPulseService(cfg, log)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return writeJSON(cmd.OutOrStdout(), svc.FetchPulseData(ctx, opts))
		},
	}

	cmd.Flags().StringVar(&region, "region", string(domain.RegionGlobal), "region filter")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "free-text query (overrides the region keywords)")
	cmd.Flags().BoolVar(&opts.IsCrisisMode, "crisis", false, "fetch the crisis feed")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "1-based page number")
	return cmd
}

func weatherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weather",
		Short: "Print a weather sample as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Close()

			svc, err := app.NewPulseService(cfg, log)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return writeJSON(cmd.OutOrStdout(), svc.FetchWeather(ctx))
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
