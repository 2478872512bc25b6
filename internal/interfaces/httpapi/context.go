package httpapi

import (
	"context"
	"net/http"
	"strings"
)

const matchPinHeader = "X-Match-Pin"

type contextKey string

const matchPinContextKey contextKey = "match_pin"

func withMatchPin(ctx context.Context, pin string) context.Context {
	return context.WithValue(ctx, matchPinContextKey, pin)
}

func matchPinFromContext(ctx context.Context) string {
	pin, _ := ctx.Value(matchPinContextKey).(string)
	return pin
}

// ExtractMatchPin moves the caller's PIN from the request header into the
// context. Authorization itself happens per operation in the service.
func ExtractMatchPin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.ExtractMatchPin")
		defer span.End()

		pin := strings.TrimSpace(r.Header.Get(matchPinHeader))
		next.ServeHTTP(w, r.WithContext(withMatchPin(ctx, pin)))
	})
}
