package middleware

import (
	"context"
	"net/http"
	"strings"

	"cluster_slots/pkg/resp"
)

const (
	SessionHeader = "X-Session-ID"
	SessionQuery  = "session"
)

type ctxKey struct{}

// Session requires a session id from the X-Session-ID header or the session
// query parameter and puts it into the request context.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(SessionHeader))
		if id == "" {
			id = strings.TrimSpace(r.URL.Query().Get(SessionQuery))
		}
		if id == "" {
			resp.WriteError(w, http.StatusBadRequest, "session id required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id)))
	})
}

func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func SessionFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
