package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/adapters/file"
	httpadapter "github.com/aretw0/espalier/pkg/adapters/http"
	redisstore "github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/observability"
	"github.com/aretw0/espalier/pkg/persistence/middleware"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP session server",
	Long: `Starts the engine in server mode, exposing session walks and graph
introspection as a JSON API over HTTP. Sessions persist in Redis when
--redis-url is set, otherwise in local JSON files.

Set ESPALIER_SESSION_KEY to one or more comma-separated base64 32-byte
keys to encrypt sessions at rest (the first key writes, the rest still
read, so keys can rotate without downtime).`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetString("port")
		redisURL, _ := cmd.Flags().GetString("redis-url")

		logger := logging.NewJSON(slog.LevelInfo)

		source, err := cli.ResolveSource(dir, "")
		if err != nil {
			fmt.Printf("Error opening graph: %v\n", err)
			os.Exit(1)
		}

		metrics := httpadapter.NewMetrics()
		engine, err := espalier.Open(cmd.Context(), source,
			espalier.WithLogger(logger),
			espalier.WithLifecycleHooks(observability.Combine(
				metrics.Hooks(),
				observability.NewLogHooks(logger, slog.LevelInfo),
			)),
		)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}

		manager, err := buildSessionManager(redisURL, logger)
		if err != nil {
			fmt.Printf("Error initializing session store: %v\n", err)
			os.Exit(1)
		}

		handler := httpadapter.NewHandler(engine, manager,
			httpadapter.WithLogger(logger),
			httpadapter.WithMetrics(metrics),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Espalier Server on %s\n", srv.Addr)
			fmt.Printf("Serving graph from: %s\n", dir)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Espalier Server stopped gracefully")
		}
	},
}

// buildSessionManager wires the session backend. With Redis the manager
// also gets a distributed locker, so multiple replicas can serve the
// same walk safely. When ESPALIER_SESSION_KEY is set, sessions are
// encrypted at rest regardless of backend.
func buildSessionManager(redisURL string, logger *slog.Logger) (*session.Manager, error) {
	var store ports.SessionStore
	opts := []session.Option{session.WithLogger(logger)}

	if redisURL == "" {
		store = file.NewStore("")
	} else {
		ropts, err := backend.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(ropts)
		store = redisstore.NewFromClient(client)
		opts = append(opts, session.WithLocker(redisstore.NewLocker(client, "espalier:")))
	}

	store, err := wrapWithEncryption(store, logger)
	if err != nil {
		return nil, err
	}

	return session.NewManager(store, opts...), nil
}

// wrapWithEncryption reads ESPALIER_SESSION_KEY: base64-encoded 32-byte
// keys, comma-separated. The first key encrypts new sessions; the rest
// still decrypt old ones, which is what makes rotation zero-downtime.
func wrapWithEncryption(store ports.SessionStore, logger *slog.Logger) (ports.SessionStore, error) {
	raw := os.Getenv("ESPALIER_SESSION_KEY")
	if raw == "" {
		return store, nil
	}

	var keys [][]byte
	for _, part := range strings.Split(raw, ",") {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid session key: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("session keys must be 32 bytes, got %d", len(key))
		}
		keys = append(keys, key)
	}

	logger.Info("Session encryption enabled", "keys", len(keys))
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    keys[0],
		FallbackKeys: keys[1:],
	})
	return mw(store), nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis-url", "", "Store sessions in Redis at the given URL")
}
