package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp decodes the timestamp shapes seen from upstream stores into a
// single UTC time.Time:
//
//	1718000000                             unix seconds (number or numeric string)
//	1718000000123                          unix milliseconds (13+ digits)
//	{"seconds": 1718000000, "nanoseconds": 5}  document-store timestamp object
//	{"_seconds": 1718000000, "_nanoseconds": 5}
//	"2024-06-10T06:13:20Z"                 RFC3339 / RFC3339Nano
//	"2024-06-10"                           date only
//
// null and "" decode to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// millisThreshold separates unix seconds from unix milliseconds.
// 1e11 seconds is in the year 5138.
const millisThreshold = 1e11

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	switch data[0] {
	case '{':
		var obj struct {
			Seconds      *int64 `json:"seconds"`
			Nanoseconds  int64  `json:"nanoseconds"`
			USeconds     *int64 `json:"_seconds"`
			UNanoseconds int64  `json:"_nanoseconds"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decoding timestamp object: %w", err)
		}
		switch {
		case obj.Seconds != nil:
			t.Time = time.Unix(*obj.Seconds, obj.Nanoseconds).UTC()
		case obj.USeconds != nil:
			t.Time = time.Unix(*obj.USeconds, obj.UNanoseconds).UTC()
		default:
			return fmt.Errorf("timestamp object without seconds: %s", data)
		}
		return nil

	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding timestamp string: %w", err)
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}

	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("unsupported timestamp %s", data)
	}
	t.Time = fromUnixNumber(n)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// ParseTimestamp parses the string forms accepted by Timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return fromUnixNumber(n), nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func fromUnixNumber(n float64) time.Time {
	if n >= millisThreshold {
		return time.UnixMilli(int64(n)).UTC()
	}
	sec := int64(n)
	nsec := int64((n - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}
