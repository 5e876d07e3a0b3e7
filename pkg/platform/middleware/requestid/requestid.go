// Package requestid assigns each request a unique identifier so log lines and
// audit events from one request can be correlated.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"votegate/pkg/requestcontext"
)

const Header = "X-Request-ID"

// Middleware reuses an inbound X-Request-ID when present, otherwise generates
// one. The id is echoed on the response and stored in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
