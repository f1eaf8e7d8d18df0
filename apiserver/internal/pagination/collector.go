package pagination

import (
	"context"
	"encoding/json"

	dida "github.com/2977094657/DidaAPI"
	"github.com/rs/zerolog"
)

// FetchPageFn fetches one page of items from upstream. An empty cursor
// requests the first (most recent) page.
type FetchPageFn func(
	ctx context.Context,
	cursor string,
) ([]json.RawMessage, error)

// CursorFn reads the raw cursor field off one item. The second return value
// is false if the item carries no usable cursor, in which case the walk
// cannot continue.
type CursorFn func(item json.RawMessage) (string, bool)

// RenderCursorFn converts a raw cursor value into the encoding the next
// upstream request requires.
type RenderCursorFn func(raw string) (string, error)

// Collector walks an upstream resource that exposes only "give me items
// older than X" semantics, accumulating every page into one ordered slice.
// Items retain upstream ordering (most recent first); the collector never
// reorders or deduplicates.
type Collector struct {
	// FullPageSize is the page length upstream serves when more data remains.
	// A page shorter than this is treated as the last page. This is a
	// heuristic, not a guarantee: upstream offers no explicit end marker, and
	// a short page does not logically imply finality.
	FullPageSize int
	// HardPageCap bounds the walk even if pages keep arriving at full size.
	HardPageCap int
	Logger      zerolog.Logger
}

// Collect drives fetch until one of the walk's termination conditions is
// met: an empty page, a page shorter than FullPageSize, an item with no
// cursor field, the hard page cap, or an error. On error the items
// accumulated so far are returned alongside a *dida.ErrPagination; partial
// results are never discarded.
func (c *Collector) Collect(
	ctx context.Context,
	fetch FetchPageFn,
	cursorOf CursorFn,
	render RenderCursorFn,
) ([]json.RawMessage, error) {
	items := []json.RawMessage{}
	cursor := ""
	for page := 0; page < c.HardPageCap; page++ {
		pageItems, err := fetch(ctx, cursor)
		if err != nil {
			c.Logger.Warn().
				Err(err).
				Int("page", page+1).
				Msg("page fetch failed; returning items accumulated so far")
			return items, dida.NewErrPagination(page, err.Error())
		}
		if len(pageItems) == 0 {
			c.Logger.Debug().Int("pages", page).Msg("no more data")
			break
		}
		items = append(items, pageItems...)
		c.Logger.Debug().
			Int("page", page+1).
			Int("pageItems", len(pageItems)).
			Int("totalItems", len(items)).
			Msg("collected page")

		raw, ok := cursorOf(pageItems[len(pageItems)-1])
		if !ok {
			c.Logger.Debug().
				Int("page", page+1).
				Msg("last item carries no cursor; stopping")
			break
		}
		if len(pageItems) < c.FullPageSize {
			break
		}
		if cursor, err = render(raw); err != nil {
			return items, dida.NewErrPagination(page+1, err.Error())
		}
	}
	return items, nil
}

// FieldCursor returns a CursorFn that reads the named string field off an
// item.
func FieldCursor(field string) CursorFn {
	return func(item json.RawMessage) (string, bool) {
		fields := map[string]json.RawMessage{}
		if err := json.Unmarshal(item, &fields); err != nil {
			return "", false
		}
		rawValue, ok := fields[field]
		if !ok {
			return "", false
		}
		value := ""
		if err := json.Unmarshal(rawValue, &value); err != nil {
			return "", false
		}
		return value, value != ""
	}
}
