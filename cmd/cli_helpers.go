package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pharmaops/shiftcheck/internal/schedule"
)

// parseViewDate parses a yyyy-mm-dd flag value in the board timezone.
// An empty value means today.
func parseViewDate(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	d, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", value)
	}
	return d, nil
}

// statusFromName converts a serialized status name back for styling.
func statusFromName(name string) schedule.Status {
	return schedule.ParseStatus(name)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
