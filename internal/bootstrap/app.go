package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pillmein/supplement-advisor/internal/domain/recommend"
	"github.com/pillmein/supplement-advisor/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	server      *http.Server
	recommender *recommend.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, recommender *recommend.Service) *App {
	return &App{
		cfg:         cfg,
		logger:      logger.With("component", "bootstrap"),
		server:      server,
		recommender: recommender,
	}
}

// Run warms the vector index and then serves HTTP until shutdown. The server
// never accepts requests while the index is still empty.
func (a *App) Run(ctx context.Context) error {
	warmStart := time.Now()
	if err := a.recommender.WarmIndex(ctx); err != nil {
		return err
	}
	a.logger.Info("vector index ready", "records", a.recommender.IndexSize(), "took_ms", time.Since(warmStart).Milliseconds())

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
