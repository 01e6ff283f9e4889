package analytics

import (
	"fmt"
	"time"
)

// Journal entries carry local date and time strings, entered separately in
// the UI. Times usually come through as "15:04" but older entries include
// seconds.
const dateLayout = "2006-01-02"

var timeLayouts = []string{"15:04", "15:04:05"}

// combineDateTime merges a journal date and time string into one timestamp.
func combineDateTime(date, clock string) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("missing date or time")
	}
	for _, layout := range timeLayouts {
		ts, err := time.ParseInLocation(dateLayout+" "+layout, date+" "+clock, time.Local)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q %q", date, clock)
}
