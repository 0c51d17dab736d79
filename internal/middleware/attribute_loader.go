package middleware

import (
	"net/http"

	"github.com/rpattn/jobql/internal/attributeloader"
	"github.com/rpattn/jobql/internal/repository"
)

// AttributeLoaderMiddleware attaches a fresh attribute loader to each request context
func AttributeLoaderMiddleware(repo repository.AttributeRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loader := attributeloader.NewAttributeLoader(repo)
			ctx := attributeloader.WithLoader(r.Context(), loader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Chain wraps h with mws so that the first middleware is outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
