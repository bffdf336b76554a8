package http

import (
	"context"
	"net"
	"net/http"

	"github.com/stockroom-io/stockroom/internal/auth"
	rl "github.com/stockroom-io/stockroom/internal/http/rate_limiter"
)

type contextKey string

const (
	userIDKey   = contextKey("user_id")
	usernameKey = contextKey("username")
	roleKey     = contextKey("role")
)

// AuthMiddleware rejects requests without a valid bearer token and puts the
// token's identity claims on the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := auth.TokenClaims(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		if sub, ok := claims["sub"].(float64); ok {
			ctx = context.WithValue(ctx, userIDKey, int(sub))
		}
		if username, ok := claims["username"].(string); ok {
			ctx = context.WithValue(ctx, usernameKey, username)
		}
		if role, ok := claims["role"].(string); ok {
			ctx = context.WithValue(ctx, roleKey, role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimitMiddleware applies the per-visitor limiter keyed by client IP.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rl.GetVisitor(ip).Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID returns the authenticated user's id, zero when unauthenticated.
func GetUserID(r *http.Request) int {
	if val, ok := r.Context().Value(userIDKey).(int); ok {
		return val
	}
	return 0
}
