package devgraph

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devgraph-ai/devgraph/pkg/config"
	"github.com/devgraph-ai/devgraph/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the devgraph HTTP server",
	Long: `Start the devgraph HTTP server to provide REST API access to the
knowledge graph.

The server provides endpoints for:
- Ingesting meeting and document records
- Answering questions over the graph
- Change-impact (ripple) analysis
- Direct artifact and relationship access
- Health checks`,
	RunE: runServe,
}

var (
	serverHost string
	serverPort int
	serverMode string
	seedPaths  []string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server-specific flags
	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serveCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")
	serveCmd.Flags().StringSliceVar(&seedPaths, "load", nil, "Record files or directories to ingest before serving")

	// LLM flags
	serveCmd.Flags().String("llm-model", "gpt-4o-mini", "Chat model")
	serveCmd.Flags().String("llm-api-key", "", "Chat API key")
	serveCmd.Flags().String("llm-base-url", "", "Chat base URL")

	// Embedding flags
	serveCmd.Flags().String("embedding-model", "text-embedding-3-small", "Embedding model")
	serveCmd.Flags().String("embedding-api-key", "", "Embedding API key")
	serveCmd.Flags().String("embedding-base-url", "", "Embedding base URL")
}

// applyServeFlags writes explicitly-set flags into the config. It must
// run before the client is constructed so the LLM and embedding clients
// pick up the overrides.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}
	if cmd.Flags().Changed("llm-model") {
		cfg.LLM.Model, _ = cmd.Flags().GetString("llm-model")
	}
	if cmd.Flags().Changed("llm-api-key") {
		cfg.LLM.APIKey, _ = cmd.Flags().GetString("llm-api-key")
	}
	if cmd.Flags().Changed("llm-base-url") {
		cfg.LLM.BaseURL, _ = cmd.Flags().GetString("llm-base-url")
	}
	if cmd.Flags().Changed("embedding-model") {
		cfg.Embedding.Model, _ = cmd.Flags().GetString("embedding-model")
	}
	if cmd.Flags().Changed("embedding-api-key") {
		cfg.Embedding.APIKey, _ = cmd.Flags().GetString("embedding-api-key")
	}
	if cmd.Flags().Changed("embedding-base-url") {
		cfg.Embedding.BaseURL, _ = cmd.Flags().GetString("embedding-base-url")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cmd, cfg)

	client, err := newClientFrom(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if len(seedPaths) > 0 {
		if err := ingestPaths(cmd.Context(), client, seedPaths); err != nil {
			return fmt.Errorf("failed to load seed records: %w", err)
		}
	}

	// Create and setup server
	srv := server.New(cfg, client)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}
