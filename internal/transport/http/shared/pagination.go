package shared

import (
	"net/http"
	"strconv"
)

// Pagination is a limit/offset window taken from the query string.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset, ignoring malformed values and
// capping the limit at maxLimit when it is positive.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	q := r.URL.Query()
	page := Pagination{
		Limit:  queryInt(q.Get("limit"), defaultLimit, 1),
		Offset: queryInt(q.Get("offset"), 0, 0),
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

// WriteHeaders reports the window and the total row count to the client.
func (p Pagination) WriteHeaders(w http.ResponseWriter, total int) {
	h := w.Header()
	h.Set("X-Total-Count", strconv.Itoa(total))
	h.Set("X-Page-Limit", strconv.Itoa(p.Limit))
	h.Set("X-Page-Offset", strconv.Itoa(p.Offset))
	h.Set("X-Has-More", strconv.FormatBool(p.Offset+p.Limit < total))
}

func queryInt(raw string, fallback, min int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return fallback
	}
	return v
}
