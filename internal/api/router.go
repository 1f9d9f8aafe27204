package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/ansuz/internal/siteservice"
	"github.com/starford/ansuz/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, is mounted at GET /events inside the auth group and
// receives reingest notifications.
func NewRouter(svc *siteservice.Service, authEnabled bool, token string, broker *sse.Broker) chi.Router {
	h := NewHandler(svc, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Catalog.
	r.Get("/posts", h.ListPosts)
	r.Get("/posts/*", h.GetPost)

	// Taxonomy.
	r.Get("/tags", h.ListTags)
	r.Get("/tags/{tag}", h.TagPosts)

	// Search.
	r.Get("/search", h.Search)

	// Ingestion.
	r.Post("/reingest", h.Reingest)

	// SSE endpoint (protected by same auth middleware).
	if broker != nil {
		r.Method(http.MethodGet, "/events", broker)
	}

	return r
}
