package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pixeldiff/internal/server"
	"pixeldiff/internal/store"
)

var (
	serveAddr     string
	serveDataDir  string
	resultTTL     time.Duration
	sweepInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the comparison HTTP server",
	Long: `Starts the HTTP server with the upload UI, the comparison API and a
periodic cleanup sweep that removes stored results older than the TTL.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDataDir, "data", "./data", "Base directory for stored results")
	serveCmd.Flags().DurationVar(&resultTTL, "ttl", time.Hour, "How long stored results are kept")
	serveCmd.Flags().DurationVar(&sweepInterval, "sweep-interval", 5*time.Minute, "How often expired results are swept")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	resultStore, err := store.NewFSStore(serveDataDir)
	if err != nil {
		return fmt.Errorf("failed to create result store: %w", err)
	}

	history, err := store.NewHistoryWriter(serveDataDir)
	if err != nil {
		return fmt.Errorf("failed to create history writer: %w", err)
	}
	defer history.Close()

	s := server.NewServer(serveAddr, resultStore, history)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartCleanup(ctx, resultTTL, sweepInterval)

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("Received signal, shutting down", "signal", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Serving", "addr", serveAddr, "data", serveDataDir, "ttl", resultTTL)
	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
