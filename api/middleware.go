package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/raushankrgupta/stylesync/functions"
	"github.com/raushankrgupta/stylesync/metrics"
	"github.com/raushankrgupta/stylesync/utils"
)

type contextKey string

const userIDKey contextKey = "userID"

var errNoUser = errors.New("user id not found in context")

// GetUserIDFromContext returns the authenticated user id set by requireAuth.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	uid, ok := ctx.Value(userIDKey).(string)
	if !ok || uid == "" {
		return "", errNoUser
	}
	return uid, nil
}

// WithUserID returns a context carrying uid, as requireAuth does.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
			return
		}
		uid, err := h.Tokens.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(WithUserID(r.Context(), uid)))
	}
}

// limitBody rejects declared oversized bodies up front and caps the rest
// while they are read.
func (h *Handler) limitBody(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > h.MaxBodyBytes {
			utils.RespondError(w, nil, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
		next(w, r)
	}
}

// limitAI applies the per-user hourly AI budget. Limiter failures are
// logged and the call is let through.
func (h *Handler) limitAI(next http.HandlerFunc, callable bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.Limiter == nil || r.Method != http.MethodPost {
			next(w, r)
			return
		}
		// Unknown functions are rejected without spending the budget.
		if callable && (h.Functions == nil || !h.Functions.Has(r.PathValue("name"))) {
			next(w, r)
			return
		}
		uid, err := GetUserIDFromContext(r.Context())
		if err != nil {
			next(w, r)
			return
		}
		allowed, err := h.Limiter.AllowAICall(r.Context(), uid, h.AICallsPerHour, time.Hour)
		if err != nil {
			slog.Warn("ai rate limiter unavailable", "error", err)
			next(w, r)
			return
		}
		if allowed {
			next(w, r)
			return
		}

		metrics.RateLimited.Inc()
		const msg = "AI request limit reached, try again later"
		if callable {
			respondFunctionError(w, functions.Errorf(functions.CodeResourceExhausted, msg))
			return
		}
		utils.RespondError(w, nil, msg, http.StatusTooManyRequests)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		slog.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed", time.Since(start))
	})
}
