package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wakala/paysync/internal/config"
	"github.com/wakala/paysync/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "paysync",
	Short: "paysync keeps orders and their payment gateway transactions in step",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if path := viper.GetString("config"); path != "" {
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config %s: %w", path, err)
			}
		}
		return nil
	},
}

func init() {
	must(config.SetDefaults(viper.GetViper()))

	rootCmd.PersistentFlags().String("config", "", "optional config file with per-store settings")
	must(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))

	rootCmd.PersistentFlags().String("environment", "local", "the deployment environment")
	must(viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("environment")))

	rootCmd.PersistentFlags().Bool("debug", false, "turn on debug logging")
	must(viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")))

	rootCmd.PersistentFlags().String("db-path", "paysync.db", "sqlite database path")
	must(viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db-path")))

	rootCmd.AddCommand(serveCmd, consumeCmd)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// setup resolves the configuration and prepares the logging context.
func setup(ctx context.Context) (context.Context, *config.Config, *zerolog.Logger, func(), error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return ctx, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	ctx = logging.WithEnvironment(ctx, cfg.Environment)
	ctx, logger := logging.SetupLogger(ctx, level)

	flush := func() {}
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			logger.Warn().Err(err).Msg("sentry disabled")
		} else {
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}
	return ctx, cfg, logger, flush, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
