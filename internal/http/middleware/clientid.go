package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const clientCookie = "fh_client"

// ClientID identifies the browser behind the request. Cart, wishlist and
// user-created products are all keyed by this id. A missing cookie gets a
// fresh uuid that is sent back to the client.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(clientCookie); err == nil && c.Value != "" {
			id = c.Value
		} else {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     clientCookie,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(365 * 24 * time.Hour),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), clientIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIDFrom returns the client id stored in ctx, or "" when absent.
func ClientIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey).(string)
	return id
}
