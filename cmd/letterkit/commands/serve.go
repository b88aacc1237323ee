// ABOUTME: Serve command starts the HTTP API for the browser editor
// ABOUTME: Runs the gin router until interrupted, then shuts down gracefully
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/harper/letterkit/internal/api"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API for the browser editor",
		Long: `Start the HTTP API for the browser editor.

Serves template CRUD, editing sessions with suggestion review,
letter previews, and a websocket stream of session changes.

Examples:
  letterkit serve
  letterkit serve --addr 127.0.0.1:9000`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: LETTERKIT_HTTP_ADDR or :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	hook, closeCharm := saveHookFor(cfg)
	defer closeCharm()

	handler := api.NewHandler(api.Deps{
		Storage:         store,
		Known:           cfg.Variables(),
		Suggester:       suggesterFor(cfg),
		OnTemplateSaved: hook,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if !quiet {
			log.Printf("letterkit HTTP API listening on %s", cfg.HTTPAddr)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: HTTP shutdown: %v", err)
	}
	handler.Wait()
	return nil
}
