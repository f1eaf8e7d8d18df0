package pagination

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// upstreamTimeLayout is the ISO-8601 variant upstream stamps on items, e.g.
// "2025-03-15T13:30:54.000+0000".
const upstreamTimeLayout = "2006-01-02T15:04:05.000-0700"

// utcPlus8 is the fixed offset the upstream service's millisecond cursors
// are defined against.
var utcPlus8 = time.FixedZone("UTC+8", 8*60*60)

// SQLCursor renders an upstream timestamp as the SQL-like cursor string the
// closed-task endpoint expects: the "T" separator becomes a space and the
// fractional-second/timezone suffix is dropped, so
// "2025-03-15T13:30:54.000+0000" becomes "2025-03-15 13:30:54".
func SQLCursor(raw string) (string, error) {
	if _, err := parseUpstreamTime(raw); err != nil {
		return "", err
	}
	cursor := strings.Replace(raw, "T", " ", 1)
	if i := strings.Index(cursor, "."); i >= 0 {
		cursor = cursor[:i]
	}
	return cursor, nil
}

// EpochMillisCursor renders an upstream timestamp as the millisecond-epoch
// cursor the focus-timeline endpoint expects. The instant is converted to
// the service's fixed UTC+8 offset before its millisecond timestamp is
// taken.
func EpochMillisCursor(raw string) (string, error) {
	t, err := parseUpstreamTime(raw)
	if err != nil {
		return "", err
	}
	millis := t.In(utcPlus8).UnixNano() / int64(time.Millisecond)
	return strconv.FormatInt(millis, 10), nil
}

func parseUpstreamTime(raw string) (time.Time, error) {
	if t, err := time.Parse(upstreamTimeLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.Wrapf(
			err,
			"error parsing upstream timestamp %q",
			raw,
		)
	}
	return t, nil
}
