// Package newsapi provides a client for the NewsAPI "everything" search
// endpoint. This package centralizes all NewsAPI interactions for the
// application.
package newsapi

import "fmt"

// ArticleSource identifies the publication an article came from.
type ArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is one article as returned by the search endpoint.
type Article struct {
	Source      ArticleSource `json:"source"`
	Title       string        `json:"title"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
}

// EverythingResponse is the response of the /everything endpoint.
type EverythingResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// APIError represents an error from the NewsAPI service.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NewsAPI error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}
