package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artlog/internal/artist"
	"artlog/internal/catalog"
	"artlog/internal/config"
	"artlog/internal/docstore"
	"artlog/internal/enrich"
	"artlog/internal/httpx"
	"artlog/internal/logging"
	"artlog/internal/platform/apiclient"
	"artlog/internal/platform/metmuseum"
	"artlog/internal/platform/wikidata"
	"artlog/internal/profile"
	"artlog/internal/review"
	"artlog/internal/social"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (ARTLOG_AUTH_JWT_SECRET)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := docstore.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer docs.Close()
	logging.Info().Str("driver", cfg.Store.Driver).Msg("document store ready")

	index := loadCatalog(cfg.Catalog)

	wd := wikidata.NewClient(apiclient.New(upstream("wikidata", cfg.Wikidata)))
	met := metmuseum.NewClient(apiclient.New(upstream("met", cfg.Met)))

	reviews := review.NewRepository(docs)
	artists := artist.NewStore(docs, wd)
	profiles := profile.NewService(docs, reviews, artists)
	follows := social.NewService(docs, reviews, profiles)
	orchestrator := enrich.NewOrchestrator(wd, met, index, reviews, artists, cfg.Enrich)

	rl := httpx.NewRateLimitMiddleware(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	mux := http.NewServeMux()
	registerRoutes(mux, handlers{
		catalog:  catalog.NewHTTPHandler(index),
		enrich:   enrich.NewHTTPHandler(orchestrator),
		artists:  artist.NewHTTPHandler(artists),
		reviews:  review.NewHTTPHandler(reviews),
		profiles: profile.NewHTTPHandler(profiles),
		social:   social.NewHTTPHandler(follows),
	}, docs, httpx.AuthMiddleware(cfg.Auth.JWTSecret), rl.Middleware)

	handler := httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware,
		httpx.AccessLogMiddleware,
		httpx.CORSMiddleware(cfg.Server.AllowedOrigins),
		httpx.SecurityHeadersMiddleware,
		httpx.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadCatalog parses the bundled catalog. A missing file leaves the
// catalog empty; search then returns nothing.
func loadCatalog(cfg config.CatalogConfig) *catalog.Index {
	layout, err := catalog.ParseLayout(cfg.Layout)
	if err != nil {
		logging.Warn().Err(err).Msg("falling back to default catalog layout")
		layout = catalog.LayoutOpenAccess
	}

	records, err := catalog.LoadFile(cfg.Path, layout)
	if err != nil {
		logging.Warn().Err(err).Str("path", cfg.Path).Msg("catalog not loaded")
		return catalog.NewIndex(nil)
	}
	logging.Info().Int("records", len(records)).Str("layout", layout.Name).Msg("catalog loaded")
	return catalog.NewIndex(records)
}

func upstream(source string, cfg config.UpstreamConfig) apiclient.Config {
	return apiclient.Config{
		Source:     source,
		BaseURL:    cfg.BaseURL,
		UserAgent:  cfg.UserAgent,
		RPS:        cfg.RPS,
		MaxRetries: cfg.MaxRetries,
		Timeout:    cfg.Timeout,
	}
}
