package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLCursor(t *testing.T) {
	cursor, err := SQLCursor("2025-03-15T13:30:54.000+0000")
	require.NoError(t, err)
	require.Equal(t, "2025-03-15 13:30:54", cursor)
}

func TestSQLCursorRejectsGarbage(t *testing.T) {
	_, err := SQLCursor("not a timestamp")
	require.Error(t, err)
}

func TestEpochMillisCursor(t *testing.T) {
	// 2025-03-15T13:30:54Z is 2025-03-15 21:30:54 in UTC+8; converting the
	// instant to a fixed offset does not move it on the epoch timeline.
	cursor, err := EpochMillisCursor("2025-03-15T13:30:54.000+0000")
	require.NoError(t, err)
	require.Equal(t, "1742045454000", cursor)
}

func TestEpochMillisCursorAcceptsZuluSuffix(t *testing.T) {
	cursor, err := EpochMillisCursor("2025-03-15T13:30:54Z")
	require.NoError(t, err)
	require.Equal(t, "1742045454000", cursor)
}

func TestEpochMillisCursorRejectsGarbage(t *testing.T) {
	_, err := EpochMillisCursor("soon")
	require.Error(t, err)
}
