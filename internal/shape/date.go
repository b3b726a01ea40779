package shape

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/spf13/cast"
)

// SpreadsheetEpoch is day zero of spreadsheet serial dates.
var SpreadsheetEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const (
	msPerDay = 24 * 60 * 60 * 1000

	// Serial dates outside (minSerialDate, maxSerialDate) are not dates.
	minSerialDate = -657435.0
	maxSerialDate = 2958466.0
)

// InferDate works out whether a value is a date. The order matters:
//   1. text is parsed as a date/time (in UTC, ambiguous slash dates month first);
//   2. a number, or text holding a number, is a day count since SpreadsheetEpoch;
//   3. anything else is returned unchanged.
// Text that is only a number never goes through step 1. Absent values and
// values that already are times are returned as is.
func InferDate(v table.Value) table.Value {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val
	case bool:
		return val
	case string:
		if t, ok := parseDateText(val); ok {
			return t
		}
		if days, ok := numericText(val); ok {
			if t, ok := FromSerialDate(days); ok {
				return t
			}
		}
		return val
	default:
		days, err := cast.ToFloat64E(val)
		if err != nil {
			return val
		}
		if t, ok := FromSerialDate(days); ok {
			return t
		}
		return val
	}
}

func parseDateText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Time{}, false
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}

	// dateparse fills in year 0 for text like "3/4" that has no year.
	if t.Year() == 0 {
		return time.Time{}, false
	}

	return t, true
}

// numericText parses text written as a plain decimal number. Digit
// separators, hex, Inf and NaN are not numbers here.
func numericText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E':
		default:
			return 0, false
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FromSerialDate converts a spreadsheet serial date to a time in UTC, rounded
// to the millisecond. Negative serials count days back from the epoch while
// the fraction still moves forward in the day, as spreadsheets do.
func FromSerialDate(days float64) (time.Time, bool) {
	if math.IsNaN(days) || days <= minSerialDate || days >= maxSerialDate {
		return time.Time{}, false
	}

	ms := int64(days*msPerDay + math.Copysign(0.5, days))
	if ms < 0 {
		ms -= (ms % msPerDay) * 2
	}

	whole := ms / msPerDay
	rest := ms % msPerDay

	return SpreadsheetEpoch.AddDate(0, 0, int(whole)).Add(time.Duration(rest) * time.Millisecond), true
}
