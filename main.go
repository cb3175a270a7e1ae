package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fashionhub/internal/cart"
	"fashionhub/internal/catalog"
	"fashionhub/internal/config"
	"fashionhub/internal/featureflags"
	mw "fashionhub/internal/http/middleware"
	"fashionhub/internal/localstore"
	"fashionhub/internal/logger"
	"fashionhub/internal/wishlist"
)

func main() {
	// 1) Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// 2) Feature flags init (non-fatal)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := featureflags.Init(ctx, cfg.RolloutKey); err != nil {
		log.Printf("feature flags init warning: %v", err)
	} else {
		log.Printf("feature flags ready: offline=%v, logLevel=%s",
			featureflags.Values().Offline.IsEnabled(nil),
			featureflags.Values().LogLevel.GetValue(nil))
	}
	defer featureflags.Shutdown()

	// 2a) Initialize levelled logger from flag & watch for flips
	logger.Init(featureflags.Values().LogLevel.GetValue(nil), cfg.IsProduction())
	logger.Infof("log level set to %s", logger.GetLevel())

	go func() {
		prev := featureflags.Values().LogLevel.GetValue(nil)
		for {
			time.Sleep(5 * time.Second)
			cur := featureflags.Values().LogLevel.GetValue(nil)
			if cur != prev {
				logger.SetLevel(cur)
				logger.Infof("log level changed to %s", logger.GetLevel())
				prev = cur
			}
		}
	}()

	// 3) Persistence backend
	kv, closeKV, err := newKV(ctx, cfg)
	if err != nil {
		log.Fatalf("store backend init failed: %v", err)
	}
	defer closeKV()
	logger.Infof("store backend: %s", cfg.StoreBackend)

	// 4) Router
	r := mux.NewRouter()

	// 4a) Offline kill-switch middleware (placed immediately after router creation)
	offlineGate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// always allow health checks
			if r.URL.Path == "/health" || r.URL.Path == "/ready" {
				next.ServeHTTP(w, r)
				return
			}
			// block all other requests when Offline flag is ON
			if featureflags.Values().Offline.IsEnabled(nil) {
				http.Error(w, "service temporarily offline", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
	r.Use(offlineGate)

	// 4b) Request id, client id and request logger (skip noisy health endpoints)
	r.Use(mw.RequestID)
	r.Use(mw.ClientID)
	r.Use(mw.LogRequests(mw.WithSkips("/health", "/ready")))

	// 5) Health endpoints
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := kv.Ping(req.Context()); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}).Methods(http.MethodGet)

	// 6) Inspect current flag values
	r.HandleFunc("/_flags", func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]interface{}{
			"offline":  featureflags.Values().Offline.IsEnabled(nil),
			"logLevel": featureflags.Values().LogLevel.GetValue(nil),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodGet)

	// 7) Storefront endpoints
	source := catalog.NewSource(cfg.CatalogURL)
	records := localstore.NewRecords(kv)
	recordsFor := func(clientID string) catalog.RecordStore { return records.For(clientID) }

	catalogHandler := catalog.NewHandler(source, recordsFor, cfg.PageSize)
	resolver := catalogHandler.Resolver()
	cartHandler := cart.NewHandler(cart.NewManager(kv), resolver)
	wishlistHandler := wishlist.NewHandler(wishlist.NewManager(kv), resolver)

	r.HandleFunc("/api/products", catalogHandler.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/products", catalogHandler.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{id}", catalogHandler.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", catalogHandler.UpdateProduct).Methods(http.MethodPut)
	r.HandleFunc("/api/products/{id}", catalogHandler.DeleteProduct).Methods(http.MethodDelete)
	r.HandleFunc("/api/categories", catalogHandler.ListCategories).Methods(http.MethodGet)

	r.HandleFunc("/api/cart", cartHandler.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/api/cart/items", cartHandler.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{id}/increase", cartHandler.IncreaseItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{id}/decrease", cartHandler.DecreaseItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{id}", cartHandler.RemoveItem).Methods(http.MethodDelete)

	r.HandleFunc("/api/wishlist", wishlistHandler.GetWishlist).Methods(http.MethodGet)
	r.HandleFunc("/api/wishlist/toggle", wishlistHandler.Toggle).Methods(http.MethodPost)
	r.HandleFunc("/api/wishlist/items/{id}", wishlistHandler.RemoveItem).Methods(http.MethodDelete)
	r.HandleFunc("/api/wishlist", wishlistHandler.Clear).Methods(http.MethodDelete)

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Infof("fashionhub listening on %s", s.Addr)
	log.Fatal(s.ListenAndServe())
}

func newKV(ctx context.Context, cfg *config.Config) (localstore.KV, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		kv, err := localstore.NewRedisKV(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	case "postgres":
		kv, err := localstore.NewPostgresKV(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil
	default:
		return localstore.NewFileKV(cfg.StorePath), func() {}, nil
	}
}
