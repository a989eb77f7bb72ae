package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wakala/paysync/internal/api"
	"github.com/wakala/paysync/internal/assembler"
	"github.com/wakala/paysync/internal/config"
	"github.com/wakala/paysync/internal/gateway"
	"github.com/wakala/paysync/internal/ingestion"
	"github.com/wakala/paysync/internal/poller"
	"github.com/wakala/paysync/internal/quote"
	"github.com/wakala/paysync/internal/reconciliation"
	"github.com/wakala/paysync/internal/repository"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the HTTP API",
	RunE:  runServe,
}

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "apply transaction events from kafka to the local projection",
	RunE:  runConsume,
}

func init() {
	serveCmd.Flags().String("port", "8080", "listen port")
	must(viper.BindPFlag("port", serveCmd.Flags().Lookup("port")))

	serveCmd.Flags().Bool("consume", false, "also run the kafka consumer")
	must(viper.BindPFlag("consume", serveCmd.Flags().Lookup("consume")))
}

type app struct {
	db         *sql.DB
	rdb        *redis.Client
	orders     *repository.OrderRepo
	customers  *repository.CustomerRepo
	infos      *repository.TransactionInfoRepo
	reconciler *reconciliation.Reconciler
	poller     *poller.Poller
	ingestion  *ingestion.Service
}

func (a *app) Close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	a.db.Close()
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*app, error) {
	logger.Info().Str("path", cfg.DBPath).Msg("initializing database")
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	a := &app{
		db:        db,
		orders:    repository.NewOrderRepo(db),
		customers: repository.NewCustomerRepo(db),
		infos:     repository.NewTransactionInfoRepo(db),
	}
	a.ingestion = ingestion.NewService(a.infos)
	a.poller = poller.New(a.infos, cfg.PollInterval)

	httpClient, err := gateway.NewHTTPClient(cfg.GatewayURL, cfg.GatewayToken, cfg.GatewayTimeout)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("gateway client: %w", err)
	}
	gw := gateway.NewInstrumentedClient(httpClient, "gateway")

	var quotes reconciliation.QuoteSync
	if cfg.RedisAddr != "" {
		a.rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := a.rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, quote links will be retried per request")
		}
		cancel()
		quotes = quote.NewRedisStore(a.rdb, quote.DefaultTTL)
	}

	asm := assembler.New(a.customers, cfg, nil)
	a.reconciler = reconciliation.New(gw, asm, a.orders, quotes)
	return a, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cfg, logger, flush, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer flush()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if viper.GetBool("consume") {
		go func() {
			if err := consume(ctx, cfg, a); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("consumer stopped")
				stop()
			}
		}()
	}

	router := api.NewRouter(logger, api.Deps{
		Orders:       a.orders,
		Customers:    a.customers,
		Infos:        a.infos,
		Reconciler:   a.reconciler,
		Poller:       a.poller,
		Ingestion:    a.ingestion,
		DefaultWait:  cfg.MaxWait,
		MaxWaitLimit: 2 * time.Minute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runConsume(cmd *cobra.Command, _ []string) error {
	ctx, cfg, logger, flush, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer flush()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := consume(ctx, cfg, a); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func consume(ctx context.Context, cfg *config.Config, a *app) error {
	if len(cfg.KafkaBrokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	reader := ingestion.NewReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup)
	defer reader.Close()
	return ingestion.Consume(ctx, reader, a.ingestion)
}
