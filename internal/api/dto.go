package api

import (
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/siteservice"
)

// PostDetail is the full post response type (aliased from the domain layer).
type PostDetail = siteservice.PostDetail

// PostListItem is a lightweight item in a list response (aliased from the domain layer).
type PostListItem = siteservice.PostListItem

// PostListResponse wraps paginated post listings.
type PostListResponse struct {
	Posts []PostListItem `json:"posts" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// TagListResponse wraps the tag index listing.
type TagListResponse struct {
	Tags []siteservice.TagSummary `json:"tags" validate:"required"`
}

// TagPostsResponse lists the post identities for one tag, date descending.
// Consumers join the identities against /posts for full records.
type TagPostsResponse struct {
	Tag   string            `json:"tag" example:"go" validate:"required"`
	Posts []models.Identity `json:"posts" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"2025/hello.md" validate:"required"`
	Subdoc  int    `json:"subdoc" example:"0" validate:"required"`
	Title   string `json:"title" example:"Hello" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// IngestResponse reports the outcome of a POST /reingest run.
type IngestResponse = siteservice.IngestSummary
