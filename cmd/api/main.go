package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/config"
	"github.com/georgemunganga/foodcourt-backend/internal/events"
	"github.com/georgemunganga/foodcourt-backend/internal/logger"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/admin"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/cart"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/catalog"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/feedback"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/order"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/vendor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const tokenTTL = 24 * time.Hour

type repositories struct {
	vendors  vendor.Repository
	catalog  catalog.Repository
	carts    cart.Repository
	orders   order.Repository
	feedback feedback.Repository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ── Storage ─────────────────────────────────────────────
	var repos repositories
	if cfg.MemoryMode() {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		vendors := vendor.NewMemoryRepository()
		repos = repositories{
			vendors:  vendors,
			catalog:  catalog.NewMemoryRepositoryWithVendors(vendors),
			carts:    cart.NewMemoryRepository(),
			orders:   order.NewMemoryRepository(),
			feedback: feedback.NewMemoryRepository(),
		}
	} else {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("ping database", zap.Error(err))
		}
		log.Info("connected to the database")
		repos = repositories{
			vendors:  vendor.NewPostgresRepository(db),
			catalog:  catalog.NewPostgresRepository(db),
			carts:    cart.NewPostgresRepository(db),
			orders:   order.NewPostgresRepository(db),
			feedback: feedback.NewPostgresRepository(db),
		}
	}

	// ── Events ──────────────────────────────────────────────
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
		log.Info("publishing events to kafka", zap.Strings("brokers", cfg.KafkaBrokers))
	} else {
		publisher = events.NewLogPublisher(log, cfg.KafkaTopicPrefix)
	}
	defer publisher.Close()

	// ── Router ──────────────────────────────────────────────
	issuer := auth.NewIssuer(cfg.JWTSecret, tokenTTL)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(auth.Authenticate(issuer))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	// ── Vendors & Catalog ───────────────────────────────────
	vendorService := vendor.NewService(repos.vendors, issuer, log.Named("vendor"))
	vendor.NewHandler(vendorService).RegisterRoutes(router)

	catalogService := catalog.NewService(repos.catalog, vendorService, vendor.NewResolver(repos.vendors), log.Named("catalog"))
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	// ── Cart & Orders ───────────────────────────────────────
	cartService := cart.NewService(repos.carts, repos.catalog, log.Named("cart"))
	cart.NewHandler(cartService).RegisterRoutes(router)

	orderService := order.NewService(repos.orders, repos.catalog, vendorService, cartService,
		publisher, log.Named("order"), cfg.DeliveryCharge)
	order.NewHandler(orderService).RegisterRoutes(router)

	// ── Feedback & Ratings ──────────────────────────────────
	aggregator := feedback.NewRatingAggregator(repos.feedback, repos.catalog, cfg.RatingWorkers, log.Named("rating"))
	feedbackService := feedback.NewService(repos.feedback, repos.orders, aggregator, publisher, log.Named("feedback"))
	feedback.NewHandler(feedbackService).RegisterRoutes(router)

	// ── Admin ───────────────────────────────────────────────
	adminService := admin.NewService(vendorService, repos.catalog, repos.orders, log.Named("admin"))
	admin.NewHandler(adminService).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Info("foodcourt API server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
