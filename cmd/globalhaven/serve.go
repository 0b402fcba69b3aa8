package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lc3t35/GlobalHaven/internal/handler"
	"github.com/lc3t35/GlobalHaven/internal/middleware"
	"github.com/lc3t35/GlobalHaven/pkg/config"
	"github.com/lc3t35/GlobalHaven/pkg/logger"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := logger.GetLogger()
		log.Info("Starting GlobalHaven", cfg.LogFields()...)

		store, err := openStore(cfg, log)
		if err != nil {
			return err
		}
		defer closeStore(store, log)

		h := handler.New(newService(cfg, store, log), cfg.MCP.APIKey)
		e := newServer(cfg, h, log)

		port := servePort
		if port == "" {
			port = cfg.Server.Port
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info("Starting server", zap.String("port", port))
			if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info("Shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default from SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}

// newServer builds the echo instance. Metrics wrap the request logger so
// they observe the status the error handler wrote.
func newServer(cfg *config.Config, h *handler.Handler, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestID)
	e.Use(prometheus.MetricsMiddleware())
	e.Use(logger.Middleware(log))

	h.Routes(e)
	return e
}
