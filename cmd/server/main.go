package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"velora-be/internal/cart"
	"velora-be/internal/catalog"
	"velora-be/internal/checkout"
	"velora-be/internal/config"
	"velora-be/internal/db"
	"velora-be/internal/logger"
	"velora-be/internal/order"
	"velora-be/internal/payment"
	"velora-be/internal/payment/webhook"
	"velora-be/internal/pricing"
	"velora-be/internal/transport/rest"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	catalogRepo := catalog.NewRepository(database)
	cartRepo := cart.NewRepository(database)

	gateway := payment.NewPaystackGateway(payment.Options{
		SecretKey:   cfg.PaystackSecretKey,
		BaseURL:     cfg.PaystackBaseURL,
		CallbackURL: cfg.CallbackURL,
	})
	paymentRepo := payment.NewRepository(database)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	checkoutSvc := checkout.NewService(gateway, orderRepo, cartRepo, pricing.Schedule{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	})

	router := rest.NewRouter(rest.RouterDeps{
		Cart:      rest.NewCartHandler(cartRepo, catalogRepo),
		Checkout:  rest.NewCheckoutHandler(checkoutSvc),
		Order:     rest.NewOrderHandler(orderSvc),
		Webhook:   webhook.NewHandler(checkoutSvc, gateway, paymentRepo),
		JWTSecret: cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      otelhttp.NewHandler(router, "velora-be"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L().Info("server starting", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.L().Info("server exited")
}
