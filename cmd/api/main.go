package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"

	"focusmatrix-backend/internal/ai"
	"focusmatrix-backend/internal/analytics"
	"focusmatrix-backend/internal/auth"
	"focusmatrix-backend/internal/config"
	"focusmatrix-backend/internal/db"
	"focusmatrix-backend/internal/push"
	"focusmatrix-backend/internal/scheduler"
	"focusmatrix-backend/internal/settings"
	"focusmatrix-backend/internal/suggestions"
	"focusmatrix-backend/internal/tasks"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	log.Println("✅ Connected to PostgreSQL!")

	secret := []byte(cfg.JWTSecret)
	authMW := auth.New(secret)

	parser := tasks.NewParser(ai.New(cfg.OpenAIKey, cfg.OpenAIModel))

	store := suggestions.NewPostgresStore(database)
	suggestionSvc := suggestions.NewService(store, parser)

	notifier := push.NewNotifier(database, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDEmail)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH API -----
	mux.HandleFunc("POST /auth/register", auth.RegisterHandler(database, secret))
	mux.HandleFunc("POST /auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("POST /auth/logout", auth.LogoutHandler())
	mux.HandleFunc("GET /auth/me", authMW.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("DELETE /auth/account", authMW.Wrap(auth.DeleteAccountHandler(database)))

	// ----- TASKS API -----
	mux.HandleFunc("GET /tasks", authMW.Wrap(tasks.ListTasksHandler(database)))
	mux.HandleFunc("POST /tasks", authMW.Wrap(tasks.CreateTaskHandler(database)))
	mux.HandleFunc("GET /tasks/{id}", authMW.Wrap(tasks.GetTaskHandler(database)))
	mux.HandleFunc("PATCH /tasks/{id}", authMW.Wrap(tasks.UpdateTaskHandler(database)))
	mux.HandleFunc("DELETE /tasks/{id}", authMW.Wrap(tasks.DeleteTaskHandler(database)))

	// ----- AI API -----
	mux.HandleFunc("POST /ai/parse-task", authMW.Wrap(tasks.ParseTaskHandler(parser)))
	mux.HandleFunc("POST /ai/sort-tasks", authMW.Wrap(tasks.SortTasksHandler(parser)))

	// ----- SUGGESTIONS API -----
	mux.HandleFunc("GET /suggestions", authMW.Wrap(suggestions.ListSuggestionsHandler(suggestionSvc, database)))
	mux.HandleFunc("POST /suggestions/{id}/accept", authMW.Wrap(suggestions.AcceptSuggestionHandler(suggestionSvc, database)))
	mux.HandleFunc("POST /suggestions/{id}/snooze", authMW.Wrap(suggestions.SnoozeSuggestionHandler(suggestionSvc, database)))
	mux.HandleFunc("POST /suggestions/{id}/dismiss", authMW.Wrap(suggestions.DismissSuggestionHandler(suggestionSvc, database)))
	mux.HandleFunc("POST /suggestions/{id}/never", authMW.Wrap(suggestions.NeverSuggestionHandler(suggestionSvc, database)))

	// ----- PUSH API -----
	mux.HandleFunc("GET /push/public-key", push.PublicKeyHandler(notifier))
	mux.HandleFunc("POST /push/subscribe", authMW.Wrap(push.SubscribeHandler(database)))
	mux.HandleFunc("POST /push/unsubscribe", authMW.Wrap(push.UnsubscribeHandler(database)))
	mux.HandleFunc("POST /push/test", authMW.Wrap(push.TestHandler(notifier)))

	// ----- SETTINGS API -----
	mux.HandleFunc("GET /settings/notifications", authMW.Wrap(settings.GetNotificationSettingsHandler(database)))
	mux.HandleFunc("PUT /settings/notifications", authMW.Wrap(settings.UpdateNotificationSettingsHandler(database)))

	// ----- ANALYTICS API -----
	mux.HandleFunc("POST /analytics/app-opened", authMW.Wrap(analytics.AppOpenedHandler(database)))

	sched := scheduler.New(database, notifier)
	sched.Start()
	defer sched.Stop()

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Platform", "X-App-Version", "X-Session-Id", "X-Source-Event-Key", "Idempotency-Key"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Println("🚀 API server is running on", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
