package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"health-tracker/internal/auth"
	"health-tracker/internal/db"
	"health-tracker/internal/observability"
	"health-tracker/internal/push"
	"health-tracker/internal/ratelimit"
	"health-tracker/internal/record"
	"health-tracker/internal/report"
	"health-tracker/internal/user"
)

type Options struct {
	LoadDotEnv    bool
	RunMigrations bool
}

type Runtime struct {
	Handler http.Handler
	Close   func() error
}

// Build wires the whole service and returns its root handler. Missing
// DATABASE_URL or JWT_SECRET is fatal here; nothing else is.
func Build(options Options) (*Runtime, error) {
	if options.LoadDotEnv {
		_ = godotenv.Load()
	}

	logger := observability.NewLogger()

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return nil, err
	}
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	if err := observability.InitSentry(os.Getenv("SENTRY_DSN"), envOrDefault("APP_ENV", "development")); err != nil {
		logger.Error("init_sentry_failed", map[string]any{"error": err.Error()})
	}

	database, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	database.SetMaxOpenConns(envIntOrDefault("DB_MAX_OPEN_CONNS", 10))
	database.SetMaxIdleConns(envIntOrDefault("DB_MAX_IDLE_CONNS", 5))
	database.SetConnMaxLifetime(envMinutesOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30))
	database.SetConnMaxIdleTime(envMinutesOrDefault("DB_CONN_MAX_IDLE_TIME_MINUTES", 10))

	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if options.RunMigrations {
		if err := db.RunMigrations(database); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	userRepo := user.NewRepository(database)
	authService := auth.NewService(userRepo, jwtSecret)
	authService.WithTokenTTL(envHoursOrDefault("TOKEN_TTL_HOURS", 720))
	authHandler := auth.NewHandler(authService)

	recordRepo := record.NewRepository(database)
	recordHandler := record.NewHandler(recordRepo)
	reportHandler := report.NewHandler(recordRepo)

	pushRepo := push.NewRepository(database)
	pushHandler := push.NewHandler(pushRepo)
	reminderHandler := push.NewReminderHandler(
		pushRepo,
		push.NewLogSender(logger),
		logger,
		os.Getenv("CRON_SECRET"),
	)

	// Strict budget on the credential endpoints, a looser one everywhere
	// else. Both sweeps stop on Close.
	authLimiter := ratelimit.New(
		envIntOrDefault("AUTH_RATE_LIMIT_MAX", 5),
		envMinutesOrDefault("AUTH_RATE_LIMIT_WINDOW_MINUTES", 15),
	)
	apiLimiter := ratelimit.New(
		envIntOrDefault("API_RATE_LIMIT_MAX", 60),
		envSecondsOrDefault("API_RATE_LIMIT_WINDOW_SECONDS", 60),
	)
	stopAuthSweep := authLimiter.StartSweep()
	stopAPISweep := apiLimiter.StartSweep()

	protected := func(h http.HandlerFunc) http.Handler {
		return apiLimiter.Middleware(auth.Middleware(jwtSecret, h))
	}

	mux := http.NewServeMux()
	mux.Handle("POST /auth/register", authLimiter.Middleware(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /auth/login", authLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("GET /health", healthHandler(database))

	mux.Handle("POST /records", protected(recordHandler.Upsert))
	mux.Handle("GET /records", protected(recordHandler.List))
	mux.Handle("GET /records/{date}", protected(recordHandler.GetByDate))
	mux.Handle("GET /reports/week", protected(reportHandler.Week))
	mux.Handle("GET /reports/month", protected(reportHandler.Month))
	mux.Handle("POST /push/subscribe", protected(pushHandler.Subscribe))
	mux.Handle("GET /push/subscriptions", protected(pushHandler.ListSubscriptions))
	mux.Handle("DELETE /push/subscribe", protected(pushHandler.Unsubscribe))

	mux.HandleFunc("POST /internal/reminders/run", reminderHandler.Handle)

	handler := observability.RecoverMiddleware(logger, observability.RequestLoggingMiddleware(logger, mux))

	return &Runtime{
		Handler: handler,
		Close: func() error {
			stopAuthSweep()
			stopAPISweep()
			observability.FlushSentry()
			return database.Close()
		},
	}, nil
}

func healthHandler(database *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]any{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
		if err := database.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func mustEnv(name string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", fmt.Errorf("missing required env: %s", name)
	}
	return value, nil
}

func envOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envIntOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envSecondsOrDefault(name string, fallback int) time.Duration {
	return time.Duration(envIntOrDefault(name, fallback)) * time.Second
}

func envMinutesOrDefault(name string, fallback int) time.Duration {
	return time.Duration(envIntOrDefault(name, fallback)) * time.Minute
}

func envHoursOrDefault(name string, fallback int) time.Duration {
	return time.Duration(envIntOrDefault(name, fallback)) * time.Hour
}

func EnvBoolOrDefault(name string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
