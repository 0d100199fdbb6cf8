package moneymanager

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/jimiolaniyan/moneymanager/auth"
)

// Pinger is implemented by stores that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHandler builds the HTTP surface. Every request passes through the
// token gatekeeper and then the authorization boundary before routing.
func NewHandler(svc auth.Service, tokens auth.TokenVerifier, accounts auth.Repository, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	router := httprouter.New()
	router.Handler(http.MethodGet, "/status", StatusHandler())
	router.Handler(http.MethodGet, "/health", HealthHandler(accounts))
	router.Handler(http.MethodGet, "/error", ErrorHandler())
	router.Handler(http.MethodPost, "/register", auth.RegisterAccountHandler(svc))
	router.Handler(http.MethodGet, "/activate", auth.ActivateHandler(svc))
	router.Handler(http.MethodGet, "/activate/:token", auth.ActivateHandler(svc))
	router.Handler(http.MethodPost, "/login", auth.LoginHandler(svc))
	router.Handler(http.MethodGet, "/profile", auth.ProfileHandler(svc))

	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		logger.ErrorContext(r.Context(), "http_panic", "path", r.URL.Path, "panic", v)
		auth.EncodeError(errors.New("panic"), w)
	}

	return auth.Authenticate(tokens, accounts, logger, auth.RequireAuth(router))
}

func StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Application is running"))
	})
}

// HealthHandler reports 503 when store is a Pinger that cannot be reached.
func HealthHandler(store interface{}) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		status := "ok"
		if p, ok := store.(Pinger); ok {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				status = "unavailable"
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		}

		if err := json.NewEncoder(w).Encode(map[string]interface{}{"status": status}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func ErrorHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.EncodeError(errors.New("error"), w)
	})
}
