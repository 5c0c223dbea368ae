package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// PaginatedResponse wraps list results with pagination metadata.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination contains offset-based pagination info.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// paginate slices items by the offset and limit query parameters and sets
// the Link header for the page.
func paginate[T any](c *fiber.Ctx, items []T) PaginatedResponse {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", defaultPageLimit)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	total := len(items)
	page := []T{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page = items[offset:end]
	}

	pg := Pagination{Offset: offset, Limit: limit, Total: total}
	SetLinkHeaders(c, pg)
	return PaginatedResponse{Data: page, Pagination: pg}
}

// SetLinkHeaders adds RFC 8288 Link headers for paginated responses.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	base := c.Path()
	link := func(offset int, rel string) string {
		return fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel="%s"`, base, offset, p.Limit, rel)
	}

	links := []string{link(0, "first")}
	if p.Offset > 0 {
		links = append(links, link(max(p.Offset-p.Limit, 0), "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}
	links = append(links, link(max(p.Total-p.Limit, 0), "last"))

	c.Set("Link", strings.Join(links, ", "))
}
