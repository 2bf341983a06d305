package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// paginator reads ?page=&limit= and builds the next/previous links
type paginator struct {
	baseURL  string
	pageSize int
}

func newPaginator(baseURL string, pageSize int) paginator {
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return paginator{baseURL: baseURL, pageSize: pageSize}
}

// Request parses the pagination query; bad values fall back to the defaults
func (p paginator) Request(c *gin.Context) types.PageRequest {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = p.pageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return types.PageRequest{Page: page, Limit: limit}
}

func paginate[T any](p paginator, c *gin.Context, req types.PageRequest, results []T, count int64) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	page := types.Page[T]{Count: count, Results: results}
	if int64(req.Page*req.Limit) < count {
		page.Next = p.link(c, req.Page+1)
	}
	if req.Page > 1 {
		page.Previous = p.link(c, req.Page-1)
	}
	return page
}

func (p paginator) link(c *gin.Context, page int) *string {
	u := url.URL{Path: c.Request.URL.Path}
	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	link := absoluteURL(c, p.baseURL, u.String())
	return &link
}

// absoluteURL prefixes path with BASE_URL, or the request's own origin
func absoluteURL(c *gin.Context, baseURL, path string) string {
	if baseURL != "" {
		return baseURL + path
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + c.Request.Host + path
}
