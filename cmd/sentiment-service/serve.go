package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	delivery "golang-sentiment-scryper/internal/analyzer/delivery/http"
	"golang-sentiment-scryper/pkg/logger"
)

var serveHandles []string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the sentiment HTTP API",
	Run:   runServe,
}

func init() {
	serveCmd.Flags().StringSliceVar(&serveHandles, "handle", nil, "Authors to load before serving (repeatable)")
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.close()

	a.logger.Info("Starting Sentiment Service", logger.Field("name", a.cfg.App.Name))
	a.addAuthors(ctx, serveHandles)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover(), middleware.RequestID(), delivery.RequestLogger(a.logger))

	delivery.RegisterHealthRoutes(e)
	sentimentHandler := delivery.NewSentimentHandler(a.sentimentService, a.logger, a.loc, a.defaultStart)
	sentimentHandler.RegisterRoutes(e.Group("/api/v1"))

	go func() {
		addr := fmt.Sprintf("%s:%d", a.cfg.API.Host, a.cfg.API.Port)
		a.logger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	<-ctx.Done()

	a.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	a.logger.Info("Server exiting")
}
