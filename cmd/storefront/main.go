// cmd/storefront/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tisoftshake/softshake/internal/adapters/in/http/middleware"
	appcfg "github.com/tisoftshake/softshake/internal/infra/config"
	"github.com/tisoftshake/softshake/internal/infra/telemetry"
	shared "github.com/tisoftshake/softshake/internal/platform/di/shared"
	storefrontDI "github.com/tisoftshake/softshake/internal/platform/di/storefront"
)

const (
	bootTimeout     = 2 * time.Minute
	shutdownTimeout = 25 * time.Second
)

func main() {
	// .env is optional (local dev only)
	if err := godotenv.Load(); err != nil {
		log.Printf("[boot] no .env loaded: %v", err)
	}
	cfg := appcfg.Load()

	shutdownTracing, err := telemetry.Setup(cfg.OTelStdout)
	if err != nil {
		log.Printf("[boot] WARN: telemetry setup failed: %v", err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// /healthz answers while the container is still being built
	router := &swapHandler{}
	router.Set(middleware.CORS(cfg.AllowedOrigins)(healthOnly()))

	srv := newServer(cfg.Port, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[boot] listening on %s (storefront)", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var live atomic.Pointer[storefrontDI.Container]
	go func() {
		cont, err := buildContainer(sigCtx)
		if err != nil {
			log.Printf("[boot] WARN: %v (serving /healthz only)", err)
			return
		}
		if sigCtx.Err() != nil {
			_ = cont.Close()
			return
		}
		live.Store(cont)
		router.Set(storefrontDI.NewHandler(cont))
		log.Printf("[boot] handler switched to storefront router")
	}()

	select {
	case <-sigCtx.Done():
		log.Printf("[boot] signal received; shutting down...")
	case err := <-serveErr:
		if err != nil {
			log.Fatalf("[boot] server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[boot] server shutdown error: %v", err)
	}
	if cont := live.Swap(nil); cont != nil {
		log.Printf("[boot] closing container resources...")
		if err := cont.Close(); err != nil {
			log.Printf("[boot] container close error: %v", err)
		}
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("[boot] telemetry shutdown error: %v", err)
		}
	}
	log.Printf("[boot] server stopped")
}

func healthOnly() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// newServer uses PORT (Cloud Run) or 8080.
func newServer(port string, h http.Handler) *http.Server {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}
	return &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func buildContainer(ctx context.Context) (*storefrontDI.Container, error) {
	ctx, cancel := context.WithTimeout(ctx, bootTimeout)
	defer cancel()

	infra, err := shared.NewInfra(ctx)
	if err != nil {
		return nil, err
	}
	cont, err := storefrontDI.NewContainer(ctx, infra)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	return cont, nil
}
