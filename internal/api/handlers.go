package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/siteservice"
	"github.com/starford/ansuz/internal/sse"
)

// Handler holds API route handlers. The broker is optional; when present,
// reingest outcomes are broadcast to SSE clients.
type Handler struct {
	svc    *siteservice.Service
	broker *sse.Broker
}

// NewHandler creates a new Handler.
func NewHandler(svc *siteservice.Service, broker *sse.Broker) *Handler {
	return &Handler{svc: svc, broker: broker}
}

// postPath extracts the source file path from the URL (everything after
// /api/posts/). Supports encoded slashes from OpenAPI clients
// (e.g. 2025%2Fhello.md).
func postPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListPosts handles GET /api/posts.
//
//	@Summary		List catalog posts with optional pagination and filtering
//	@Tags			posts
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			tag		query		string	false	"Filter by tag"
//	@Param			drafts	query		bool	false	"Include draft posts"
//	@Success		200		{object}	PostListResponse
//	@Security		BearerAuth
//	@Router			/posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	tag := q.Get("tag")
	drafts := q.Get("drafts") == "true"

	items, total, err := h.svc.ListPosts(r.Context(), limit, offset, tag, drafts)
	if err != nil {
		slog.Error("list posts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []PostListItem{}
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: items, Total: total})
}

// GetPost handles GET /api/posts/*.
//
//	@Summary		Get a single post by source path and sub-document ordinal
//	@Tags			posts
//	@Produce		json
//	@Param			path	path		string	true	"Source file path"
//	@Param			subdoc	query		int		false	"Sub-document ordinal (default 0)"
//	@Success		200		{object}	PostDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/posts/{path} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	path := postPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	subdoc, _ := strconv.Atoi(r.URL.Query().Get("subdoc"))

	post, err := h.svc.GetPost(r.Context(), models.Identity{Path: path, Offset: subdoc})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get post failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// ListTags handles GET /api/tags.
//
//	@Summary		List every tag with its post count
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TagListResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TagListResponse{Tags: h.svc.Tags(r.Context())})
}

// TagPosts handles GET /api/tags/{tag}.
//
//	@Summary		List post identities carrying a tag, date descending
//	@Tags			tags
//	@Produce		json
//	@Param			tag	path		string	true	"Tag name"
//	@Success		200	{object}	TagPostsResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags/{tag} [get]
func (h *Handler) TagPosts(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	ids, err := h.svc.TagPosts(r.Context(), tag)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("unknown tag"))
		} else {
			slog.Error("tag posts failed", slog.String("tag", tag), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, TagPostsResponse{Tag: tag, Posts: ids})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search through post titles, bodies, and tags
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	hits, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("q", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	results := make([]SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = SearchResult{Path: hit.Path, Subdoc: hit.Subdoc, Title: hit.Title, Snippet: hit.Snippet}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Reingest handles POST /api/reingest.
//
//	@Summary		Trigger a full ingestion run
//	@Tags			ingest
//	@Produce		json
//	@Success		200	{object}	IngestResponse
//	@Failure		422	{object}	IngestResponse
//	@Security		BearerAuth
//	@Router			/reingest [post]
func (h *Handler) Reingest(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Reingest(r.Context())
	if err != nil {
		slog.Error("reingest failed", slog.String("error", err.Error()))
		if h.broker != nil {
			h.broker.PublishIngestFailed(err.Error())
		}
		if summary != nil && len(summary.Errors) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, summary)
		} else {
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	if h.broker != nil && !summary.Unchanged {
		h.broker.PublishCatalogUpdated(summary.Posts, summary.Tags)
	}
	writeJSON(w, http.StatusOK, summary)
}
