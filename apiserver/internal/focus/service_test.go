package focus

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type mockUpstreamClient struct {
	timelineFn func(
		ctx context.Context,
		toMillis int64,
	) ([]json.RawMessage, error)
	generalFn   func(ctx context.Context) (json.RawMessage, error)
	statisticFn func(
		ctx context.Context,
		kind string,
		startDate string,
		endDate string,
	) (json.RawMessage, error)
}

func (m *mockUpstreamClient) FocusTimeline(
	ctx context.Context,
	toMillis int64,
) ([]json.RawMessage, error) {
	return m.timelineFn(ctx, toMillis)
}

func (m *mockUpstreamClient) FocusGeneral(
	ctx context.Context,
) (json.RawMessage, error) {
	return m.generalFn(ctx)
}

func (m *mockUpstreamClient) FocusDistribution(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return m.statisticFn(ctx, "dist", startDate, endDate)
}

func (m *mockUpstreamClient) FocusHeatmap(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return m.statisticFn(ctx, "heatmap", startDate, endDate)
}

func (m *mockUpstreamClient) FocusTimeDistribution(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return m.statisticFn(ctx, "timeDist", startDate, endDate)
}

func (m *mockUpstreamClient) FocusHourDistribution(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return m.statisticFn(ctx, "hourDist", startDate, endDate)
}

func timelinePage(count int, startTime string) []json.RawMessage {
	page := make([]json.RawMessage, count)
	for i := range page {
		page[i] = json.RawMessage(
			fmt.Sprintf(`{"id":"focus-%d","startTime":%q}`, i, startTime),
		)
	}
	return page
}

func TestTimelineHistory(t *testing.T) {
	var calls int
	client := &mockUpstreamClient{
		timelineFn: func(
			_ context.Context,
			toMillis int64,
		) ([]json.RawMessage, error) {
			calls++
			switch calls {
			case 1:
				require.Zero(t, toMillis)
				return timelinePage(31, "2025-03-15T13:30:54.000+0000"), nil
			case 2:
				// The upstream timestamp must have been rewritten into the
				// millisecond-epoch cursor the timeline endpoint expects.
				require.Equal(t, int64(1742045454000), toMillis)
				return timelinePage(5, "2025-03-14T09:00:00.000+0000"), nil
			}
			require.Fail(t, "walk should have stopped after the short page")
			return nil, nil
		},
	}
	svc := NewService(client, zerolog.Nop())

	records, err := svc.TimelineHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 36)
	require.Equal(t, 2, calls)
}

func TestTimelinePageAndGeneralPassThrough(t *testing.T) {
	client := &mockUpstreamClient{
		timelineFn: func(
			_ context.Context,
			toMillis int64,
		) ([]json.RawMessage, error) {
			require.Equal(t, int64(1742045454000), toMillis)
			return timelinePage(1, "2025-03-15T13:30:54.000+0000"), nil
		},
		generalFn: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"todayPomoCount":3}`), nil
		},
	}
	svc := NewService(client, zerolog.Nop())

	page, err := svc.TimelinePage(context.Background(), 1742045454000)
	require.NoError(t, err)
	require.Len(t, page, 1)

	general, err := svc.General(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"todayPomoCount":3}`, string(general))
}

func TestDateRangeStatisticsPassThrough(t *testing.T) {
	client := &mockUpstreamClient{
		statisticFn: func(
			_ context.Context,
			kind string,
			startDate string,
			endDate string,
		) (json.RawMessage, error) {
			require.Equal(t, "20250301", startDate)
			require.Equal(t, "20250315", endDate)
			return json.RawMessage(fmt.Sprintf("{%q:true}", kind)), nil
		},
	}
	svc := NewService(client, zerolog.Nop())
	ctx := context.Background()

	dist, err := svc.Distribution(ctx, "20250301", "20250315")
	require.NoError(t, err)
	require.JSONEq(t, `{"dist":true}`, string(dist))

	heatmap, err := svc.Heatmap(ctx, "20250301", "20250315")
	require.NoError(t, err)
	require.JSONEq(t, `{"heatmap":true}`, string(heatmap))

	timeDist, err := svc.TimeDistribution(ctx, "20250301", "20250315")
	require.NoError(t, err)
	require.JSONEq(t, `{"timeDist":true}`, string(timeDist))

	hourDist, err := svc.HourDistribution(ctx, "20250301", "20250315")
	require.NoError(t, err)
	require.JSONEq(t, `{"hourDist":true}`, string(hourDist))
}
