// Package cli exposes the pipeline stages as cobra commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"PharmaDigest/internal/app"
	"PharmaDigest/internal/config"
	"PharmaDigest/internal/logging"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

const envPrefix = "PHARMADIGEST"

// Execute runs the root command.
func Execute() error {
	// .env is optional; variables already set win.
	_ = godotenv.Load()

	return NewRootCommand().ExecuteContext(context.Background())
}

// NewRootCommand builds the command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "pharmadigest",
		Short: "Daily pharma and biotech news clipper",
		Long: `pharmadigest clips pharma/biotech news from RSS feeds, keeps the articles that
match the keyword policy, summarizes them and delivers a five-item digest to Telegram.

Stages can run separately (clip, report, send) or chained (run).`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().String("config", "", "YAML config file (default: $PHARMADIGEST_CONFIG)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("workdir", "", "directory for clipped_news.json and daily_report.json")
	for _, name := range []string{"config", "log-level", "workdir"} {
		_ = v.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	stage := func(use, short string, run func(*app.Application, context.Context) error, needsTelegram bool) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg := loadConfig(v)
				if needsTelegram {
					if err := cfg.RequireTelegram(); err != nil {
						return err
					}
				}
				return runStage(cmd.Context(), cfg, use, run)
			},
		}
	}

	root.AddCommand(
		stage("clip", "Fetch, filter and save today's shortlist", (*app.Application).RunClip, false),
		stage("report", "Summarize the shortlist into the report document", (*app.Application).RunReport, false),
		stage("send", "Deliver the report document to Telegram", (*app.Application).RunSend, true),
		stage("run", "Run clip, report and send in sequence", (*app.Application).Run, true),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "pharmadigest %s\n", Version)
			},
		},
	)

	return root
}

func loadConfig(v *viper.Viper) config.Config {
	cfg := config.Load(v.GetString("config"))
	if level := v.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if dir := v.GetString("workdir"); dir != "" {
		cfg.Files.WorkDir = dir
	}
	return cfg
}

func runStage(ctx context.Context, cfg config.Config, name string, run func(*app.Application, context.Context) error) error {
	logger := logging.FromConfig(cfg.Logging)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close application", "error", err)
		}
	}()

	logger.Info("stage starting", slog.String("stage", name), slog.String("version", Version))
	if err := run(application, ctx); err != nil {
		logger.Error("stage failed", "stage", name, "error", err)
		return err
	}
	logger.Info("stage finished", "stage", name)
	return nil
}
