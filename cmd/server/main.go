package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/desivar/bridebloom/internal/config"
	"github.com/desivar/bridebloom/internal/events"
	"github.com/desivar/bridebloom/internal/handlers"
	"github.com/desivar/bridebloom/internal/store"
)

func main() {
	// Configure slog to output DEBUG level messages
	// This should be done as early as possible in main
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// Using TextHandler for console readability; for production JSONHandler might be preferred.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(context.Background(), cfg.MongoURI, cfg.Database)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer db.Close(context.Background())

	if err := db.EnsureIndexes(context.Background()); err != nil {
		slog.Error("Failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// 3. Order event publishing (optional)
	var publisher *events.Publisher
	if cfg.KafkaBroker != "" {
		publisher = events.NewPublisher(strings.Split(cfg.KafkaBroker, ","))
		defer publisher.Close()
		slog.Info("Order event publishing enabled", "broker", cfg.KafkaBroker)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("Failed to create upload directory", "error", err)
		os.Exit(1)
	}

	// 4. Setup Handlers
	authHandler := &handlers.AuthHandler{
		Users:    db,
		Secret:   cfg.JWTSecret,
		TokenTTL: cfg.TokenTTL,
	}
	flowerHandler := &handlers.FlowerHandler{
		Flowers:   db,
		UploadDir: cfg.UploadDir,
	}
	orderHandler := &handlers.OrderHandler{
		Orders:  db,
		Flowers: db,
		Users:   db,
		Carts:   db,
	}
	if publisher != nil {
		orderHandler.Events = publisher
	}
	reviewHandler := &handlers.ReviewHandler{
		Reviews: db,
		Orders:  db,
		Flowers: db,
		Users:   db,
	}
	cartHandler := &handlers.CartHandler{
		Carts:   db,
		Flowers: db,
	}
	consultationHandler := &handlers.ConsultationHandler{
		Consultations: db,
		Identify:      authHandler.Identify,
	}
	adminHandler := &handlers.AdminHandler{
		Flowers:       db,
		Orders:        db,
		Consultations: db,
	}

	mux := http.NewServeMux()

	// Uploaded flower images
	fileServer := http.FileServer(http.Dir(cfg.UploadDir))
	mux.Handle("/uploads/", http.StripPrefix("/uploads", fileServer))

	// Rate Limiter (1 request per minute) for the public consultation form
	rateLimiter := handlers.NewRateLimiter(1 * time.Minute)

	// Auth
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/me", authHandler.Authenticate(authHandler.Me))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	// Catalog (public reads, admin mutations)
	mux.HandleFunc("GET /api/flowers", flowerHandler.List)
	mux.HandleFunc("GET /api/flowers/seasons", flowerHandler.Seasons)
	mux.HandleFunc("GET /api/flowers/season/{season}", flowerHandler.BySeason)
	mux.HandleFunc("GET /api/flowers/popular", flowerHandler.Popular)
	mux.HandleFunc("GET /api/flowers/{id}", flowerHandler.Get)
	mux.HandleFunc("POST /api/flowers", authHandler.Authenticate(authHandler.RequireAdmin(flowerHandler.Create)))
	mux.HandleFunc("PUT /api/flowers/{id}", authHandler.Authenticate(authHandler.RequireAdmin(flowerHandler.Update)))
	mux.HandleFunc("DELETE /api/flowers/{id}", authHandler.Authenticate(authHandler.RequireAdmin(flowerHandler.Delete)))
	mux.HandleFunc("POST /api/flowers/{id}/image", authHandler.Authenticate(authHandler.RequireAdmin(flowerHandler.UploadImage)))

	// Cart
	mux.HandleFunc("GET /api/cart", authHandler.Authenticate(cartHandler.Get))
	mux.HandleFunc("POST /api/cart", authHandler.Authenticate(cartHandler.Add))
	mux.HandleFunc("PUT /api/cart/{flowerId}", authHandler.Authenticate(cartHandler.UpdateQuantity))
	mux.HandleFunc("DELETE /api/cart/{flowerId}", authHandler.Authenticate(cartHandler.RemoveItem))
	mux.HandleFunc("DELETE /api/cart", authHandler.Authenticate(cartHandler.Clear))

	// Orders
	mux.HandleFunc("POST /api/orders", authHandler.Authenticate(orderHandler.Create))
	mux.HandleFunc("GET /api/orders", authHandler.Authenticate(orderHandler.ListMine))
	mux.HandleFunc("GET /api/orders/all", authHandler.Authenticate(authHandler.RequireAdmin(orderHandler.ListAll)))
	mux.HandleFunc("GET /api/orders/{id}", authHandler.Authenticate(orderHandler.Get))
	mux.HandleFunc("PATCH /api/orders/{id}/status", authHandler.Authenticate(authHandler.RequireAdmin(orderHandler.UpdateStatus)))

	// Reviews
	mux.HandleFunc("POST /api/reviews", authHandler.Authenticate(reviewHandler.Create))
	mux.HandleFunc("GET /api/reviews/flower/{flowerId}", reviewHandler.ListForFlower)
	mux.HandleFunc("GET /api/reviews/user", authHandler.Authenticate(reviewHandler.ListMine))

	// Consultations
	mux.HandleFunc("POST /api/consultations", rateLimiter.Middleware(consultationHandler.Create))
	mux.HandleFunc("GET /api/consultations", authHandler.Authenticate(consultationHandler.List))
	mux.HandleFunc("PATCH /api/consultations/{id}/status", authHandler.Authenticate(authHandler.RequireAdmin(consultationHandler.UpdateStatus)))

	// Admin dashboard
	mux.HandleFunc("GET /api/admin/stats", authHandler.Authenticate(authHandler.RequireAdmin(adminHandler.Stats)))

	// 5. Middleware Setup
	// Chain: Logger -> Security Headers -> CORS -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			handlers.CORSMiddleware(cfg.CORSOrigin)(mux),
		),
	)

	// 6. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	// Create a channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Goroutine to start the server
	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-stop

	slog.Info("Shutting down server gracefully...")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
