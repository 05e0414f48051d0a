package middleware

import (
	"context"
	"net/http"
	"strings"

	"pixelgram-backend/internal/services"
)

type contextKey string

const userIDKey contextKey = "user_id"

// AuthCookieName is the cookie carrying the signed token.
const AuthCookieName = "token"

// AuthMiddleware authenticates requests before any core operation
// runs. The token is read from the auth cookie, with an Authorization
// bearer header accepted as fallback for non-browser clients.
func AuthMiddleware(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				respondUnauthenticated(w, "user not authenticated")
				return
			}

			userID, err := userService.ValidateJWT(token)
			if err != nil {
				respondUnauthenticated(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// GetUserID extracts the authenticated user ID from the context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func respondUnauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"error":"unauthenticated","message":"` + message + `"}`))
}
