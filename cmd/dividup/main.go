// dividup — dividend-focused stock analysis dashboard.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/dividup/dividup/api"
	"github.com/dividup/dividup/internal/config"
	"github.com/dividup/dividup/internal/datasource"
	"github.com/dividup/dividup/internal/logo"
	"github.com/dividup/dividup/internal/pipeline"
	"github.com/dividup/dividup/internal/provider"
	"github.com/dividup/dividup/internal/providers"
	"github.com/dividup/dividup/internal/report"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dividup",
	Short: "dividup — dividend stock analysis dashboard",
	Long: `dividup analyzes dividend-paying stocks: price and dividend history,
fundamental statements, valuation ratios, growth projections and the
Geraldine Weiss yield-band method, as a CLI or an HTTP API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		setupLogging(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(providersCmd)
}

// setupLogging configures the global logger from the config section.
func setupLogging(lc config.LoggingConfig) {
	logger := log.Logger{Level: log.ParseLevel(lc.Level)}
	if lc.Format != "json" {
		logger.Writer = &log.ConsoleWriter{ColorOutput: true}
	}
	log.DefaultLogger = logger
}

// buildPipeline wires the provider registry, the data service and the
// analysis engine from the loaded config.
func buildPipeline() (*pipeline.Pipeline, *provider.Registry, error) {
	registry := provider.NewRegistry()
	err := providers.RegisterAllToWith(registry, providers.Options{
		QuoteCacheTTL:     time.Duration(cfg.Data.QuoteCacheTTLSec) * time.Second,
		StatementCacheTTL: time.Duration(cfg.Data.StatementCacheTTLSec) * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("provider setup failed: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithDefaults(pipeline.Defaults{
			Years:           cfg.Analysis.DefaultYears,
			Interval:        cfg.Analysis.DefaultInterval,
			DesiredYieldPct: cfg.Analysis.DefaultDesiredYield,
		}),
		pipeline.WithNewsLimit(cfg.Data.NewsLimit),
	}
	if cfg.Data.ResolveLogos {
		opts = append(opts, pipeline.WithLogoResolver(logo.NewResolver()))
	}

	pipe := pipeline.New(datasource.New(registry), opts...)
	return pipe, registry, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dividup %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Run the full dividend analysis for a stock",
	Long: `Fetch price history, dividends and fundamental statements for a ticker
and print the dashboard: headline metrics, price targets, yield bands,
per-year fundamentals and ratios.

Examples:
  dividup analyze KO
  dividup analyze MMM --years 20 --desired-yield 3.5
  dividup analyze JNJ --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		years, _ := cmd.Flags().GetInt("years")
		interval, _ := cmd.Flags().GetString("interval")
		desiredYield, _ := cmd.Flags().GetFloat64("desired-yield")
		asJSON, _ := cmd.Flags().GetBool("json")

		pipe, _, err := buildPipeline()
		if err != nil {
			return err
		}

		analysis, err := pipe.Run(context.Background(), pipeline.Request{
			Ticker:          args[0],
			Years:           years,
			Interval:        interval,
			DesiredYieldPct: desiredYield,
		})
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(analysis)
		}

		report.WriteAnalysis(os.Stdout, analysis)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Int("years", 0, "history window in years (5, 10, 15 or 20)")
	analyzeCmd.Flags().String("interval", "", "price interval (1d or 1mo)")
	analyzeCmd.Flags().Float64("desired-yield", 0, "desired dividend yield in percent for the target price")
	analyzeCmd.Flags().Bool("json", false, "print the full analysis as JSON")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, registry, err := buildPipeline()
		if err != nil {
			return err
		}

		srv := api.NewServer(cfg, pipe, registry)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and data-provider connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("dividup %s (%s)\n\n", version, commit)

		fmt.Println("Configuration:")
		fmt.Printf("  Window:         %d years, %s bars\n", cfg.Analysis.DefaultYears, cfg.Analysis.DefaultInterval)
		fmt.Printf("  Desired yield:  %.1f%%\n", cfg.Analysis.DefaultDesiredYield)
		fmt.Printf("  API server:     %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("  Log level:      %s\n", cfg.Logging.Level)
		fmt.Println()

		registry := provider.NewRegistry()
		if err := providers.RegisterAllTo(registry); err != nil {
			return err
		}

		fmt.Println("Providers:")
		for _, info := range registry.List() {
			p, err := registry.Get(info.Name)
			if err != nil {
				continue
			}
			status := "ok"
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			if err := p.Ping(ctx); err != nil {
				status = "unreachable: " + err.Error()
			}
			cancel()
			fmt.Printf("  %-12s %s\n", info.Name, status)
		}
		return nil
	},
}

// --- Providers Command ---

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List registered market-data providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := provider.NewRegistry()
		if err := providers.RegisterAllTo(registry); err != nil {
			return err
		}

		for _, info := range registry.List() {
			fmt.Printf("%s — %s\n", info.Name, info.Description)
			fmt.Printf("  website: %s\n", info.Website)
			fmt.Printf("  models:  ")
			for i, m := range info.Models {
				if i > 0 {
					fmt.Print(", ")
				}
				fmt.Print(string(m))
			}
			fmt.Println()
		}
		return nil
	},
}
