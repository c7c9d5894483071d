package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wmlepcha/valensita/app/cart"
	"github.com/wmlepcha/valensita/app/products"
	"github.com/wmlepcha/valensita/app/session"
	"github.com/wmlepcha/valensita/app/stock"
	"github.com/wmlepcha/valensita/app/variants"
	"github.com/wmlepcha/valensita/internal/config"
	"github.com/wmlepcha/valensita/internal/metrics"
	"github.com/wmlepcha/valensita/models"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	productsRepo := models.NewProductsRepository(db)
	variantsRepo := models.NewVariantsRepository(db)

	cartMetrics := metrics.NewCartMetrics()
	sessions := session.NewMemoryStore()
	ledger := stock.NewLedger(productsRepo)

	policy := cart.DefaultStockPolicy()
	policy.ZeroQuantityIsUnlimited = cfg.CartZeroQtyUnlimited

	cartStore := cart.NewStore(sessions, productsRepo, ledger, policy, log)
	projector := cart.NewProjector(cartStore, productsRepo, cartMetrics, log)

	cartHandler := cart.NewCartHandler(cartStore, projector, cartMetrics, log)
	productsHandler := products.NewProductsHandler(productsRepo)
	variantsHandler := variants.NewVariantsHandler(variantsRepo, productsRepo, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /cart", cartHandler.HandleGetCart)
	mux.HandleFunc("POST /cart/add", cartHandler.HandleAdd)
	mux.HandleFunc("PUT /cart/update/{key}", cartHandler.HandleUpdate)
	mux.HandleFunc("DELETE /cart/remove/{key}", cartHandler.HandleRemove)
	mux.HandleFunc("POST /cart/clear", cartHandler.HandleClear)
	mux.HandleFunc("GET /cart/count", cartHandler.HandleCount)

	mux.HandleFunc("GET /products/{slug}", productsHandler.HandleGetProduct)

	mux.HandleFunc("POST /admin/products/{id}/variants", variantsHandler.HandleCreate)
	mux.HandleFunc("PUT /admin/variants/{id}", variantsHandler.HandleUpdate)
	mux.HandleFunc("DELETE /admin/variants/{id}", variantsHandler.HandleDelete)
	mux.HandleFunc("POST /admin/variants/status", variantsHandler.HandleSetStatus)

	handler := requestLogger(log, session.Middleware(mux))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", srv.Addr).Info("storefront cart service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	})
}
