package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PaginatedResponse is the envelope every list endpoint returns.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination mirrors the store-side page window. Total counts all matching
// rows, not just the returned page.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// SetLinkHeaders writes the RFC 8288 Link header for the current page.
// first and last are always present; prev and next only when such a page
// exists.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	last := p.Total - p.Limit
	if last < 0 {
		last = 0
	}
	prev := p.Offset - p.Limit
	if prev < 0 {
		prev = 0
	}

	rels := []struct {
		name   string
		offset int
		ok     bool
	}{
		{"first", 0, true},
		{"prev", prev, p.Offset > 0},
		{"next", p.Offset + p.Limit, p.Offset+p.Limit < p.Total},
		{"last", last, true},
	}

	links := make([]string, 0, len(rels))
	for _, r := range rels {
		if !r.ok {
			continue
		}
		links = append(links, fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel=%q`, c.Path(), r.offset, p.Limit, r.name))
	}
	c.Set("Link", strings.Join(links, ", "))
}
