package util

import "time"

// SafeParseRFC3339 parses a bus timestamp, falling back to the zero time on
// malformed input so a bad producer cannot poison the whole pipeline.
func SafeParseRFC3339(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
