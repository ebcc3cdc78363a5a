package main

import (
	"fmt"
	"log"
	"net/http"

	"snipr/internal/api"
	"snipr/internal/api/handlers"
	"snipr/internal/api/middleware"
	"snipr/internal/engine/alias"
	"snipr/internal/engine/screening"
	"snipr/internal/engine/urls"
	"snipr/internal/platform/config"
	"snipr/internal/platform/database"
	"snipr/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	// Alias codec. Capacity problems are configuration errors and
	// fail startup instead of surfacing per request.
	alphabet, err := alias.NewStripped(cfg.Aliases.Characters, cfg.Aliases.MinLength, cfg.Aliases.MaxLength)
	if err != nil {
		log.Fatalf("Invalid alias alphabet: %v", err)
	}
	codec, err := alias.NewCodec(alphabet)
	if err != nil {
		log.Fatalf("Invalid alias configuration: %v", err)
	}

	// Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	repo := urls.NewRepository(db, codec)
	cache := urls.NewResolveCache(cfg.Cache.RedirectTTL)

	screener := buildScreener(cfg.Screening)

	// Handlers
	shortenHandler := handlers.NewShortenHandler(repo, codec, screener,
		cfg.Domains.BaseURL, cfg.Registration.RetryLimit, cfg.Registration.CollisionWarnThreshold)
	redirectHandler := handlers.NewRedirectHandler(repo, codec, cache, cfg.Domains.BaseURL)
	healthHandler := handlers.NewHealthHandler(db)

	rateLimiter := middleware.NewRateLimiter(map[string]int{
		"shorten":  cfg.RateLimit.ShortenPerMinute,
		"redirect": cfg.RateLimit.RedirectPerMinute,
	})

	router := api.NewRouter(&api.Dependencies{
		ShortenHandler:  shortenHandler,
		RedirectHandler: redirectHandler,
		HealthHandler:   healthHandler,
		RateLimiter:     rateLimiter,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildScreener(cfg config.ScreeningConfig) *screening.Screener {
	if !cfg.Enabled {
		return nil
	}

	whitelist := screening.NewHostCollection("whitelist", cfg.WhitelistedHosts)
	screener := screening.NewScreener(whitelist, cfg.DefaultMessage)

	for _, zone := range cfg.DNSBLZones {
		screener.Prepend(screening.NewDNSBL(zone), cfg.SourceMessages[zone])
	}
	if cfg.SafeBrowsing.APIKey != "" {
		sb := screening.NewSafeBrowsing(cfg.SafeBrowsing.APIKey, "snipr", "1.0")
		screener.Prepend(sb, cfg.SourceMessages[sb.Name()])
	}
	if len(cfg.BlacklistedHosts) > 0 {
		blacklist := screening.NewHostCollection("blacklist", cfg.BlacklistedHosts)
		screener.Prepend(blacklist, cfg.SourceMessages[blacklist.Name()])
	}

	return screener
}
