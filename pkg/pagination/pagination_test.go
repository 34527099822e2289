package pagination

import (
	"net/url"
	"testing"
)

func TestFromQueryDefaults(t *testing.T) {
	params := FromQuery(url.Values{})
	if params.Page != 1 || params.Limit != DefaultLimit {
		t.Fatalf("unexpected defaults %+v", params)
	}

	params = FromQuery(url.Values{"page": {"abc"}, "limit": {"-3"}})
	if params.Page != 1 || params.Limit != DefaultLimit {
		t.Fatalf("malformed input should fall back, got %+v", params)
	}
}

func TestNormalizeCapsLimit(t *testing.T) {
	params := Params{Page: 3, Limit: 5000}.Normalize()
	if params.Limit != MaxLimit {
		t.Fatalf("expected capped limit, got %d", params.Limit)
	}
	if params.Page != 3 {
		t.Fatalf("page should be preserved, got %d", params.Page)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := (Params{Page: 4, Limit: 25}).Offset(); got != 75 {
		t.Fatalf("expected offset 75, got %d", got)
	}
}

func TestTotalPages(t *testing.T) {
	if got := TotalPages(0, 10); got != 1 {
		t.Fatalf("empty listing should still report one page, got %d", got)
	}
	if got := TotalPages(101, 10); got != 11 {
		t.Fatalf("expected 11 pages, got %d", got)
	}
}
