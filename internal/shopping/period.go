package shopping

import (
	"fmt"
	"time"
)

// PeriodID returns the year-week identifier ("2025-W23") used to bucket
// shopping lists over time. Weeks follow ISO 8601.
func PeriodID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// ListTitle is the human-facing name of a period's list, matching the
// "ShoppingCart_<period>" naming of the spreadsheet era.
func ListTitle(periodID string) string {
	return "ShoppingCart_" + periodID
}
