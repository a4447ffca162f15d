package web

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestHistoryFilterParsing(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"empty query", "", false},
		{"symbol and status", "symbol=AAA&status=admitted", false},
		{"full range", "from=2026-08-01T00:00:00Z&to=2026-08-25T00:00:00Z&limit=10", false},
		{"bad limit", "limit=abc", true},
		{"negative limit", "limit=-5", true},
		{"bad from", "from=yesterday", true},
		{"bad to", "to=2026-13-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/signals?"+tt.query, nil)
			filter, err := historyFilter(r)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("historyFilter: %v", err)
			}
			if filter.Limit <= 0 {
				t.Errorf("limit = %d, want a positive default", filter.Limit)
			}
		})
	}
}

func TestHistoryFilterValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/signals?symbol=AAA&from=2026-08-01T00:00:00Z&limit=5", nil)
	filter, err := historyFilter(r)
	if err != nil {
		t.Fatalf("historyFilter: %v", err)
	}
	if filter.Symbol != "AAA" || filter.Limit != 5 {
		t.Errorf("filter = %+v", filter)
	}
	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !filter.From.Equal(want) {
		t.Errorf("from = %v, want %v", filter.From, want)
	}
}
