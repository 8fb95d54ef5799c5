package billing

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Amount is a rupee amount that tolerates the loose numeric shapes the
// upstream billing feed produces: JSON numbers, numeric strings, empty
// strings and nulls. Anything that does not parse becomes 0 rather than
// failing the whole payload.
type Amount float64

// UnmarshalJSON accepts numbers, quoted numbers, null and "".
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*a = 0
			return nil
		}
		*a = Amount(coerce(v))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*a = 0
		return nil
	}
	*a = Amount(coerce(v))
	return nil
}

// Float returns the amount as a float64, mapping NaN to 0.
func (a Amount) Float() float64 {
	return coerce(float64(a))
}

// coerce mirrors the permissive Number(x) || 0 policy: NaN collapses to 0,
// everything else passes through.
func coerce(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// round2 normalizes a value to 2 decimal places. Non-finite values pass
// through unchanged.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}

// dateLayouts are tried in order when parsing upstream timestamps.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// parseWhen parses a timestamp string leniently. The second return value is
// false when the string is empty or matches no known layout; callers treat
// that as "not in range", never as an error.
func parseWhen(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// firstWhen walks a fallback chain of timestamp candidates and returns the
// first one that parses.
func firstWhen(candidates ...string) (time.Time, bool) {
	for _, c := range candidates {
		if t, ok := parseWhen(c); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
