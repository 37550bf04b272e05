package bill

import (
	"fmt"
	"time"
)

// Display labels for bill statuses.
var statusLabels = map[string]string{
	StatusPending:  "En attente",
	StatusAccepted: "Accepté",
	StatusRefused:  "Refusé",
}

// FormatDate normalizes a raw ISO-8601 date into its fixed-width, year-first
// display form. Keeping the output zero-padded and year-first means sorting
// the display strings lexicographically sorts them chronologically.
func FormatDate(raw string) (string, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "", fmt.Errorf("parsing date %q: %w", raw, err)
	}
	return t.Format("2006-01-02"), nil
}

// FormatStatus maps a raw status to its display label.
func FormatStatus(raw string) (string, error) {
	label, ok := statusLabels[raw]
	if !ok {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return label, nil
}
