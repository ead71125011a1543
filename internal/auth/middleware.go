package auth

import (
	"net/http"
	"strings"

	"github.com/igtaposh/ordersathi-backend/internal/platform/httpx"
	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

// CookieName is the cookie carrying the access token for browser clients.
const CookieName = "token"

// Middleware rejects requests without a valid token and stores the user id in the context.
func Middleware(tokens *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			userID, err := tokens.Parse(raw)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithUser(r.Context(), userID)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
