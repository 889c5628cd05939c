package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/snaprag/snaprag/pkg/api"
	"github.com/snaprag/snaprag/pkg/log"
	"github.com/snaprag/snaprag/pkg/retrieval"
)

var serveAddr string

// serveCmd starts the HTTP/JSON API surface (pkg/api), an external
// collaborator over the core's storage/retrieval handles. Not part of
// the spec's core CLI surface, but needs a binary entrypoint to be
// exercised at all.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP/JSON API surface (profiles, stats, search, rag)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	emb, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	eng := retrieval.New(store, emb, 0)
	srv := api.NewServer(store, eng, lockPath(cmd))

	httpServer := &http.Server{Addr: serveAddr, Handler: srv.Mux()}

	serveLog := log.WithComponent("cli")
	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	serveLog.Info().Str("addr", serveAddr).Msg("starting api server")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}
