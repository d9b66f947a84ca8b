// Command hiveserver runs the King-of-the-Hill Hive board server: the
// websocket session broker, the single-threaded match engine, and the
// plain HTTP surface fronting them, wired the way the teacher's
// cmd/server/main.go wires its own hub.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/hiveserver/hiveserver/internal/config"
	"github.com/hiveserver/hiveserver/internal/ws"
)

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cfg := config.Load()
	devMode := cfg.Mode == config.Development

	stop := make(chan struct{})
	engine := ws.NewEngine(cfg, nil, logger)
	hub := ws.NewHub(cfg.OriginAllowlist, devMode, engine, logger)
	engine.SetBroadcaster(hub)
	go engine.Run(stop)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: cors(cfg.OriginAllowlist, devMode, mux)}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server exited")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	close(stop)
	_ = srv.Shutdown(context.Background())
}

func cors(allow []string, devMode bool, next http.Handler) http.Handler {
	allowSet := map[string]struct{}{}
	for _, a := range allow {
		if a != "" {
			allowSet[a] = struct{}{}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			_, allowed := allowSet[origin]
			if allowed || devMode {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
