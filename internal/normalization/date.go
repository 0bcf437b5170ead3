package normalization

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

const (
	// CanonicalLayout is the only layout FlexibleDate ever emits.
	CanonicalLayout = "2006-01-02T15:04:05"

	// Day count of the Unix epoch in spreadsheet serial dates.
	spreadsheetEpochOffset = 25569
	secondsPerDay          = 86400
)

// Order matters: 01/02/2024 is read day-first because d/m/y precedes y/m/d.
var textLayouts = []string{
	"2006-1-2",
	"2006-1-2T15:04:05",
	"2006-1-2T15:04:05Z",
	"2.1.2006",
	"2/1/2006",
	"2006/1/2",
}

var maxSerialSeconds = float64(time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix())

// FlexibleDate converts spreadsheet serial numbers and the supported text layouts
// into CanonicalLayout. Text matching no layout is returned trimmed and unchanged.
// The second return is false when there is no usable value.
func FlexibleDate(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case float64:
		return fromSerial(t)
	case float32:
		return fromSerial(float64(t))
	case int:
		return fromSerial(float64(t))
	case int32:
		return fromSerial(float64(t))
	case int64:
		return fromSerial(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return fromText(t.String())
		}
		return fromSerial(f)
	case string:
		return fromText(t)
	case *string:
		if t == nil {
			return "", false
		}
		return fromText(*t)
	default:
		return "", false
	}
}

// FlexibleDatePtr is FlexibleDate for nullable columns.
func FlexibleDatePtr(v any) *string {
	s, ok := FlexibleDate(v)
	if !ok {
		return nil
	}
	return &s
}

// ParseCanonical reads a CanonicalLayout string back into a UTC time.
func ParseCanonical(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(CanonicalLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func fromSerial(days float64) (string, bool) {
	if math.IsNaN(days) || math.IsInf(days, 0) || days < spreadsheetEpochOffset {
		return "", false
	}
	seconds := math.Round((days - spreadsheetEpochOffset) * secondsPerDay)
	if seconds > maxSerialSeconds {
		return "", false
	}
	return time.Unix(int64(seconds), 0).UTC().Format(CanonicalLayout), true
}

func fromText(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, layout := range textLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.Format(CanonicalLayout), true
		}
	}
	return s, true
}
