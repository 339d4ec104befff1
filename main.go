package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/bsm/src/config"
	"github.com/username/bsm/src/handlers"
	"github.com/username/bsm/src/loader"
	"github.com/username/bsm/src/logger"
	"github.com/username/bsm/src/processors"
	"github.com/username/bsm/src/services"
	"golang.org/x/time/rate"
)

var limiter *rate.Limiter

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == config.Cfg.FrontendBaseURL {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Cookie")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("BSM dashboard backend starting...")

	limiter = rate.NewLimiter(rate.Every(config.Cfg.RateLimitInterval), config.Cfg.RateLimitBurst)

	// The loan data file is read lazily on the first portfolio request and
	// memoized for the process lifetime.
	loanLoader := loader.New(config.Cfg.LoanDataPath)

	viewCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)
	portfolioService := services.NewPortfolioService(loanLoader, viewCache)
	sessionService := services.NewSessionService(config.Cfg.SessionTTL)
	displayProcessor := processors.NewDisplayProcessor()

	homeHandler := handlers.NewHomeHandler()
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, sessionService, displayProcessor)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "BSM Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/sections", homeHandler.ListSections)
		r.Get("/sections/{slug}", homeHandler.GetSection)

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/view", portfolioHandler.HandleGetView)
			r.Post("/view", portfolioHandler.HandleSetView)
			r.Get("/months", portfolioHandler.HandleGetMonths)
			r.Get("/summary", portfolioHandler.HandleGetSummary)
			r.Get("/filters", portfolioHandler.HandleGetFilterOptions)
			r.Get("/facilities", portfolioHandler.HandleGetFacilities)
			r.Get("/charts", portfolioHandler.HandleGetCharts)
		})
	})

	r.Get("/portfolio/dashboard", portfolioHandler.HandleDashboardPage)

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
