package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/contractor-quote/internal/config"
	"github.com/Simplici0/contractor-quote/internal/db"
	"github.com/Simplici0/contractor-quote/internal/migrations"
	"github.com/Simplici0/contractor-quote/internal/pricing"
	"github.com/Simplici0/contractor-quote/internal/quote"
	"github.com/Simplici0/contractor-quote/internal/seed"
	"github.com/Simplici0/contractor-quote/internal/store"
)

type server struct {
	db       *sql.DB
	store    *store.Store
	defaults pricing.PricingDefaults
	locks    *quote.Locker
}

func newServer(database *sql.DB, defaults pricing.PricingDefaults) *server {
	return &server{
		db:       database,
		store:    store.New(database),
		defaults: defaults,
		locks:    quote.NewLocker(),
	}
}

func main() {
	cfg := config.Load()

	defaults, err := config.LoadPricingDefaults(cfg.PricingDefaultsFile)
	if err != nil {
		log.Fatalf("failed to load pricing defaults: %v", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
		stats, err := seed.Run(database)
		if err != nil {
			log.Fatalf("failed to seed catalog: %v", err)
		}
		log.Printf("seeded catalog: %d inserted, %d already present", stats.Inserts, stats.Skipped)
	}

	srv := newServer(database, defaults)

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalogList)
		r.Get("/catalog/{id}", s.handleCatalogGet)
		r.Put("/catalog/{id}", s.handleCatalogPut)

		r.Post("/calc/unit", s.handleCalcUnit)
		r.Post("/calc/coverage", s.handleCalcCoverage)
		r.Post("/calc/difficulty", s.handleCalcDifficulty)
		r.Post("/calc/extras", s.handleCalcExtras)
		r.Post("/calc/tiling", s.handleCalcTiling)
		r.Post("/calc/panel", s.handleCalcPanel)
		r.Post("/totals", s.handleTotals)

		r.Get("/quotes", s.handleQuotesList)
		r.Post("/quotes", s.handleQuoteCreate)
		r.Get("/quotes/{id}", s.handleQuoteGet)
		r.Put("/quotes/{id}", s.handleQuoteUpdate)
		r.Post("/quotes/{id}/categories/{categoryId}/rounding", s.handleQuoteRounding)
		r.Get("/quotes/{id}/export.xlsx", s.handleQuoteExport)
		r.Get("/quotes/{id}/text", s.handleQuoteText)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
