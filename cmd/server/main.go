package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pd-assess/backend/internal/analytics"
	"github.com/pd-assess/backend/internal/assignments"
	"github.com/pd-assess/backend/internal/auth"
	"github.com/pd-assess/backend/internal/config"
	"github.com/pd-assess/backend/internal/database"
	"github.com/pd-assess/backend/internal/generator"
	"github.com/pd-assess/backend/internal/middleware"
	"github.com/pd-assess/backend/internal/scorer"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()
	auth.JWTSecret = []byte(cfg.JWTSecret)

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Core components
	gen := generator.NewDefault(time.Now().UnixNano())
	sc := scorer.NewDefault()

	// Stores, services, handlers
	analyticsStore := analytics.NewStore(db)
	assignmentStore := assignments.NewStore(db)
	assignmentService := assignments.NewService(assignmentStore, gen, sc, analyticsStore)

	authHandler := auth.NewHandler(db)
	assignmentHandler := assignments.NewHandler(assignmentService)
	analyticsHandler := analytics.NewHandler(analyticsStore)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/assignments", assignmentHandler.ListAssignments).Methods("GET")
	protected.HandleFunc("/assignments/{id:[0-9]+}", assignmentHandler.GetAssignment).Methods("GET")
	protected.HandleFunc("/assignments/{id:[0-9]+}/submit", assignmentHandler.SubmitAnswers).Methods("POST")

	// Admin routes
	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminOnly)
	admin.HandleFunc("/engineers", assignmentHandler.ListEngineers).Methods("GET")
	admin.HandleFunc("/assignments", assignmentHandler.CreateAssignment).Methods("POST")
	admin.HandleFunc("/submissions/pending", assignmentHandler.PendingSubmissions).Methods("GET")
	admin.HandleFunc("/submissions/{id:[0-9]+}/review", assignmentHandler.Review).Methods("GET")
	admin.HandleFunc("/submissions/{id:[0-9]+}/grade", assignmentHandler.Grade).Methods("POST")
	admin.HandleFunc("/stats", analyticsHandler.GetStats).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
