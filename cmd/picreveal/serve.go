package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	httpadapter "svw.info/picreveal/internal/adapters/http"
	"svw.info/picreveal/internal/imageinput"
	"svw.info/picreveal/internal/selector"
	"svw.info/picreveal/internal/usecase"
	"svw.info/picreveal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.HTTPAddr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := usecase.NewSessions(kv, a.cfg.Slot, selector.NewRandom(nil), imageinput.NewDecoder(a.cfg.MaxUpload), a.log)

	go sessions.Janitor(ctx, time.Minute, a.cfg.IdleTimeout)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(a.log))
	e.Use(httpadapter.PlayerMiddleware())
	e.Use(httpadapter.RateLimitMiddleware(a.cfg.RatePerSec, a.cfg.RateBurst, a.cfg.IdleTimeout))
	httpadapter.New(sessions, web.Templates(), web.StaticFS(), a.cfg.MaxUpload, a.log).Register(e)

	errc := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.HTTPAddr).Str("store", a.cfg.Store).Msg("starting server")
		if err := e.Start(a.cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	a.log.Info().Int("sessions", sessions.Len()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
