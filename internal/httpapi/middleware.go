package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/XavierBriggs/fairedge/internal/identity"
)

// requestLogger logs method, path, status, and duration for every request,
// in the same one-line-per-request shape as the teacher's chi middleware
// stack (api-gateway/cmd/api-gateway/main.go's middleware.Logger).
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

type identityContextKey struct{}

// identityFromHeaders reads the tuple an upstream identity-verifying proxy
// is expected to attach to the request (spec §6: "the core only consumes
// the resulting tuple; it does not verify tokens"). Absent headers resolve
// to identity.Anonymous.
func identityFromHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identity.Anonymous

		if userID := r.Header.Get("X-User-Id"); userID != "" {
			id.UserID = userID
			id.Email = r.Header.Get("X-User-Email")
			id.Role = identity.Role(r.Header.Get("X-User-Role"))
			id.SubscriptionActive = r.Header.Get("X-Subscription-Active") == "true"

			if id.Role == "" {
				id.Role = identity.RoleFree
			}
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromContext(r *http.Request) identity.Identity {
	id, ok := r.Context().Value(identityContextKey{}).(identity.Identity)
	if !ok {
		return identity.Anonymous
	}
	return id
}
