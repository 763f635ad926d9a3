// internal/interfaces/http/handlers/pagination.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginatedResponse is the list envelope with browseable page links
type PaginatedResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewPaginatedResponse builds the list envelope. Next and previous are
// absolute-path links preserving the caller's other query params.
func NewPaginatedResponse(c *gin.Context, count int64, page, limit int, results interface{}) PaginatedResponse {
	response := PaginatedResponse{
		Count:   count,
		Results: results,
	}

	if limit < 1 {
		limit = 1
	}
	totalPages := int((count + int64(limit) - 1) / int64(limit))

	if page < totalPages {
		next := pageLink(c, page+1)
		response.Next = &next
	}
	if page > 1 {
		prev := pageLink(c, page-1)
		response.Previous = &prev
	}

	return response
}

// pageLink rewrites the request URL with a different page number
func pageLink(c *gin.Context, page int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
