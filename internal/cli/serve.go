package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpadapter "github.com/PabloGalante/therapy-chat/internal/adapters/http"
	"github.com/PabloGalante/therapy-chat/internal/adapters/storage/memory"
	"github.com/PabloGalante/therapy-chat/internal/app/conversation"
	"github.com/PabloGalante/therapy-chat/internal/config"
	"github.com/PabloGalante/therapy-chat/internal/observability"
)

type ServeCmd struct {
	Port      string  `long:"port" env:"PORT" default:"8080" description:"listen port"`
	RateLimit float64 `long:"rate-limit" env:"THERAPY_RATE_LIMIT" default:"5" description:"requests per second, 0 disables"`
	Burst     int     `long:"burst" env:"THERAPY_RATE_BURST" default:"10" description:"rate limit burst"`
}

func (c *ServeCmd) run(ctx context.Context, cfg *config.Config) error {
	log := observability.Logger()

	completer, err := NewCompleter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing completion provider: %w", err)
	}

	svc := conversation.NewService(completer, memory.NewSession()).WithTimeout(cfg.Timeout)
	if err := svc.StartSession(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + c.Port,
		Handler:           httpadapter.NewServer(svc, httpadapter.Options{RateLimit: c.RateLimit, Burst: c.Burst}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("therapy API listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
