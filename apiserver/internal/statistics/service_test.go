package statistics

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type mockUpstreamClient struct {
	rankingFn func(ctx context.Context) (json.RawMessage, error)
	generalFn func(ctx context.Context) (json.RawMessage, error)
}

func (m *mockUpstreamClient) UserRanking(
	ctx context.Context,
) (json.RawMessage, error) {
	return m.rankingFn(ctx)
}

func (m *mockUpstreamClient) GeneralStatistics(
	ctx context.Context,
) (json.RawMessage, error) {
	return m.generalFn(ctx)
}

func TestRankingAndGeneralPassThrough(t *testing.T) {
	client := &mockUpstreamClient{
		rankingFn: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"ranking":99.5}`), nil
		},
		generalFn: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"score":120}`), nil
		},
	}
	svc := NewService(client, zerolog.Nop())

	ranking, err := svc.Ranking(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"ranking":99.5}`, string(ranking))

	general, err := svc.General(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"score":120}`, string(general))
}
