package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jaminalder/cube-tic-tac-toe/internal/app"
	"github.com/jaminalder/cube-tic-tac-toe/internal/config"
	"github.com/jaminalder/cube-tic-tac-toe/internal/web"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over HTTP",
		Long: `Start the web front-end. Open the address in a browser, pick single
or two player mode, and play; boards update live over server-sent events.
A JSON view of every game is available at /game/{id}/state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Logger(os.Stderr)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := app.NewService(
		app.WithEngine(cfg.Engine()),
		app.WithLogger(logger),
		app.WithAIDelay(cfg.AIDelay),
	)
	defer svc.Close()

	g, ctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(svc, logger),
		ReadHeaderTimeout: 5 * time.Second,
		// event streams end with the server
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Addr, "depth", cfg.Depth, "ai_delay", cfg.AIDelay, "ai_timeout", cfg.AITimeout)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
