package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pickup/cmd"
	httpadapter "pickup/internal/adapters/in/http"
	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "pickup",
		Short:        "Cainiao pickup order service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the scheduled sync jobs",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return withApp(c.Context(), envFile, serve)
			},
		},
		&cobra.Command{
			Use:   "sync-orders [orderCode]",
			Short: "Pull remote order details for one order or all unfinished orders",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				return withApp(c.Context(), envFile, func(ctx context.Context, app *cmd.CompositionRoot, config cmd.Config, _ *zap.Logger) error {
					ctx, cancel := context.WithTimeout(ctx, config.SyncRunTimeout)
					defer cancel()
					report, err := app.CreateSyncOrderDetailCommandHandler().
						Handle(ctx, commands.NewSyncOrderDetailCommand(firstArg(args)))
					return printReport(c.OutOrStdout(), report, err)
				})
			},
		},
		&cobra.Command{
			Use:   "sync-logistics [orderCode]",
			Short: "Pull logistics trails for one order or all orders in transit",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				return withApp(c.Context(), envFile, func(ctx context.Context, app *cmd.CompositionRoot, config cmd.Config, _ *zap.Logger) error {
					ctx, cancel := context.WithTimeout(ctx, config.SyncRunTimeout)
					defer cancel()
					report, err := app.CreateSyncLogisticsCommandHandler().
						Handle(ctx, commands.NewSyncLogisticsCommand(firstArg(args)))
					return printReport(c.OutOrStdout(), report, err)
				})
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return withApp(c.Context(), envFile, func(_ context.Context, app *cmd.CompositionRoot, _ cmd.Config, log *zap.Logger) error {
					if err := app.Migrate(); err != nil {
						return err
					}
					log.Info("schema migrated")
					return nil
				})
			},
		},
	)
	return root
}

type runFunc func(ctx context.Context, app *cmd.CompositionRoot, config cmd.Config, log *zap.Logger) error

func withApp(parent context.Context, envFile string, run runFunc) error {
	config, err := cmd.LoadConfig(envFile)
	if err != nil {
		return err
	}

	log, err := logger.New(config.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := cmd.OpenDatabase(config, log)
	if err != nil {
		log.Error("database unavailable", zap.Error(err))
		return err
	}

	app := cmd.NewCompositionRoot(config, db, log)
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("close resources", zap.Error(err))
		}
	}()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Ping(ctx); err != nil {
		log.Error("redis unavailable", zap.Error(err))
		return err
	}
	return run(ctx, app, config, log)
}

func serve(ctx context.Context, app *cmd.CompositionRoot, config cmd.Config, log *zap.Logger) error {
	server, err := app.CreateHTTPServer(ctx)
	if err != nil {
		return err
	}
	e := server.Echo()

	jobManager := app.CreateJobManager()
	if config.SchedulerEnabled {
		if err := jobManager.StartAll(); err != nil {
			return err
		}
		defer jobManager.StopAll()
	} else {
		log.Info("scheduler disabled")
	}

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)
		log.Info("http server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	return httpadapter.Shutdown(e, shutdownTimeout)
}

// printReport writes one line per order, including the failed order of a
// single-mode run, and then returns err unchanged.
func printReport(w io.Writer, report commands.SyncReport, err error) error {
	if len(report.Items) > 0 || report.Skipped || err == nil {
		for _, line := range report.Lines() {
			if _, werr := fmt.Fprintln(w, line); werr != nil {
				return errors.Join(err, werr)
			}
		}
	}
	return err
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
