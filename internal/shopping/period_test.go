package shopping

import (
	"testing"
	"time"
)

func TestPeriodID(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), "2025-W23"},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2025-W01"},
		// ISO week years differ from calendar years at the boundary.
		{time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), "2025-W01"},
		{time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W53"},
	}
	for _, tt := range tests {
		if got := PeriodID(tt.date); got != tt.want {
			t.Errorf("PeriodID(%s) = %q, want %q", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestListTitle(t *testing.T) {
	if got := ListTitle("2025-W23"); got != "ShoppingCart_2025-W23" {
		t.Errorf("ListTitle = %q", got)
	}
}
