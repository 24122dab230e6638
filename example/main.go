package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/forge-sentry/middlewares"
	"github.com/dmitrymomot/forge-sentry/pkg/logger"
	"github.com/dmitrymomot/forge-sentry/pkg/sentrytarget"
	"github.com/dmitrymomot/forge-sentry/pkg/session"
)

const sessionTTL = 24 * time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := sentrytarget.NewMetrics(reg)

	log, shutdownLog := logger.NewWithSentry(cfg,
		logger.WithContextExtractors(
			middlewares.RequestIDExtractor(),
			logger.SessionExtractor(),
			logger.TraceExtractor(),
		),
		logger.WithTargetOptions(
			sentrytarget.WithExtraCallback(requestExtras),
			sentrytarget.WithMetrics(metrics),
		),
	)
	zlog, shutdownZap := logger.NewZapWithSentry(cfg,
		logger.WithTargetOptions(sentrytarget.WithMetrics(metrics)),
	)

	store := session.NewMemoryStore()

	r := chi.NewRouter()
	r.Use(
		middlewares.RequestID(),
		middlewares.Session(store, middlewares.WithSessionLogger(log)),
		middlewares.Recover(log),
	)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Post("/login", loginHandler(store, log))
	r.Get("/charge", chargeHandler(log))
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("something went terribly wrong")
	})

	server := &http.Server{
		Addr:              getEnv("ADDRESS", ":8080"),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reconcile(gctx, zlog.Named("reconciler"))
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		return errors.Join(
			server.Shutdown(shutdownCtx),
			shutdownZap(shutdownCtx),
			shutdownLog(shutdownCtx),
		)
	})

	return g.Wait()
}

// loadConfig reads SENTRY_CONFIG (YAML) when set, then the SENTRY_*
// environment. The release defaults to the current git revision.
func loadConfig() (logger.SentryConfig, error) {
	cfg, err := logger.LoadSentryConfig(os.Getenv("SENTRY_CONFIG"))
	if err != nil {
		return cfg, err
	}
	if cfg.Target.Release == "" {
		cfg.Target.Release = sentrytarget.ReleaseAuto
	}
	return cfg, nil
}

// requestExtras adds the session ID to the extras of every event.
func requestExtras(rec sentrytarget.Record, extra map[string]any) map[string]any {
	if rec.Session != nil {
		extra["session_id"] = rec.Session.ID
	}
	return extra
}

func loginHandler(store *session.MemoryStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.Start(r.Context(), sessionTTL)
		if err != nil {
			log.ErrorContext(r.Context(), "failed to start session", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		s.Authenticate(getEnv("DEMO_USER", "demo"))
		s.SetValue("username", "demo")
		s.SetValue("email", "demo@example.com")
		s.SetValue("password", "hunter2") // masked in Sentry CONTEXT

		middlewares.SetSessionCookie(w, s, "")
		w.WriteHeader(http.StatusNoContent)
	}
}

func chargeHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := errors.New("card declined")
		log.ErrorContext(r.Context(), "charge failed",
			slog.Any("error", err),
			slog.String("category", "billing"),
		)
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	}
}

// reconcile emulates a background job logging through zap.
func reconcile(ctx context.Context, log *zap.Logger) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			log.Warn("reconciliation lagging", zap.Duration("lag", 90*time.Second))
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
