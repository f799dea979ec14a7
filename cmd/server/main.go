package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"budget-api/internal/api"
	"budget-api/internal/config"
	"budget-api/internal/expenses"
	"budget-api/internal/incomes"
	"budget-api/internal/middleware"
	"budget-api/internal/store"
	"budget-api/internal/users"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	client, err := store.Connect(ctx, cfg.MongoURL)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer client.Disconnect(ctx)
	db := store.New(client.Database(cfg.MongoDB))
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("mongo ensure indexes: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	usersHandler := users.NewHandler(db)
	incomesHandler := incomes.NewHandler(db)
	expensesHandler := expenses.NewHandler(db)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health checks
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "Budget API is running",
		})
	})
	r.Get("/test-mongo", func(w http.ResponseWriter, r *http.Request) {
		// The one endpoint that reports store failures inside a 200 body.
		collections, err := db.CollectionNames(r.Context())
		if err != nil {
			api.WriteJSON(w, http.StatusOK, map[string]string{
				"status": "error",
				"detail": err.Error(),
			})
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "ok",
			"collections": collections,
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", usersHandler.Register)
		r.Post("/login", usersHandler.Login)
		r.With(middleware.ValidateUserID).Put("/{userID}/saving-percent", usersHandler.UpdateSavingPercent)
	})

	r.Route("/incomes/{userID}", func(r chi.Router) {
		r.Use(middleware.ValidateUserID)
		r.Post("/add", incomesHandler.Add)
		r.Get("/", incomesHandler.List)
		r.Get("/saving-summary", incomesHandler.SavingSummary)
		r.Put("/{incomeID}", incomesHandler.Update)
		r.Delete("/{incomeID}", incomesHandler.Delete)
	})

	r.Route("/expenses/{userID}", func(r chi.Router) {
		r.Use(middleware.ValidateUserID)
		r.Post("/add", expensesHandler.Add)
		r.Get("/", expensesHandler.List)
		r.Get("/summary", expensesHandler.Summary)
		r.Put("/{expenseID}", expensesHandler.Update)
		r.Delete("/{expenseID}", expensesHandler.Delete)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Printf("Budget API listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
