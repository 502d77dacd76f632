package shared

import (
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=900&offset=20", nil)
	page := ParsePagination(req, 50, 200)
	if page.Limit != 200 || page.Offset != 20 {
		t.Fatalf("unexpected page %+v", page)
	}

	req = httptest.NewRequest("GET", "/?limit=-1&offset=x", nil)
	page = ParsePagination(req, 50, 200)
	if page.Limit != 50 || page.Offset != 0 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestWriteHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	Pagination{Limit: 10, Offset: 10}.WriteHeaders(rec, 25)
	if rec.Header().Get("X-Total-Count") != "25" || rec.Header().Get("X-Has-More") != "true" {
		t.Fatalf("unexpected headers %v", rec.Header())
	}

	rec = httptest.NewRecorder()
	Pagination{Limit: 10, Offset: 20}.WriteHeaders(rec, 25)
	if rec.Header().Get("X-Has-More") != "false" {
		t.Fatalf("expected last page, got %v", rec.Header())
	}
}
