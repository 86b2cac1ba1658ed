// Package timex provides time types that serialize to the formats the
// persisted store uses: ISO-8601 UTC timestamps with millisecond precision
// for record fields, and human-readable duration strings for config files.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// isoMillis matches JavaScript's Date.toISOString(): always UTC, always
// exactly three fractional digits.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Time is a time.Time that marshals as an ISO-8601 UTC string with
// millisecond precision. Existing persisted records use exactly this
// format, so round-trips are byte-stable.
type Time struct {
	time.Time
}

// Now returns the current instant truncated to millisecond precision in
// UTC, so a value survives a marshal/unmarshal cycle unchanged.
func Now() Time {
	return Time{time.Now().UTC().Truncate(time.Millisecond)}
}

// At wraps an arbitrary instant, normalizing it to UTC millisecond
// precision the same way Now does.
func At(t time.Time) Time {
	return Time{t.UTC().Truncate(time.Millisecond)}
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(isoMillis))
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	// Accept any RFC 3339 variant (older records may carry offsets or a
	// different number of fractional digits).
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	*t = At(parsed)
	return nil
}

// Duration is a DTO wrapper used for JSON unmarshalling of config values.
// It accepts either a string like "720h" or an integer number of
// nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return errors.New("invalid duration")
	}
	return nil
}
