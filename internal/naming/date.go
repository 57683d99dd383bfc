package naming

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "20060102"

// CaptureDate is a calendar date rendered as eight ASCII digits (YYYYMMDD).
type CaptureDate string

// ParseCaptureDate validates value as a YYYYMMDD calendar date.
func ParseCaptureDate(value string) (CaptureDate, error) {
	value = strings.TrimSpace(value)
	if len(value) != len(dateLayout) {
		return "", fmt.Errorf("capture date %q: want 8 digits", value)
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return "", fmt.Errorf("capture date %q: want 8 digits", value)
		}
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return "", fmt.Errorf("capture date %q: %w", value, err)
	}
	return CaptureDate(value), nil
}

// DateFromTime formats t in its own location.
func DateFromTime(t time.Time) CaptureDate {
	return CaptureDate(t.Format(dateLayout))
}

// String returns the YYYYMMDD form.
func (d CaptureDate) String() string {
	return string(d)
}

// Time returns midnight UTC of the date, or the zero time when invalid.
func (d CaptureDate) Time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}
