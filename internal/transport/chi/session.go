package chi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// sessionCookie names the cookie carrying the browser's session id.
const sessionCookie = "moviedex_session"

type sessionCtxKey struct{}

// SessionMiddleware assigns each browser a session id. The id scopes the
// detail selection: each session holds at most one expanded item. A missing
// or empty cookie gets a fresh uuid; existing ids are reused as-is.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			id = c.Value
		}

		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the request's session id. Outside SessionMiddleware it
// returns the empty string.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionCtxKey{}).(string)
	return id
}
