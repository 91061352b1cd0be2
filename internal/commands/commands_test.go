package commands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
	"github.com/mauv0809/pinned-leaderboard/internal/metrics"
	"github.com/mauv0809/pinned-leaderboard/internal/render"
)

var fixedNow = time.Date(2024, 3, 9, 16, 5, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *leaderboard.Mock, *metrics.Mock) {
	t.Helper()
	store := leaderboard.NewMock()
	m := metrics.NewMock()
	renderer := render.New(render.Options{Title: "Test", PointsLabel: "pts", Timezone: "UTC", TimezoneLabel: "UTC"})
	svc := New(store, renderer, m)
	svc.now = func() time.Time { return fixedNow }
	return svc, store, m
}

func TestLeaderboard_RendersTopEntries(t *testing.T) {
	svc, store, m := newTestService(t)
	entries := []leaderboard.Entry{{DisplayName: "Ann", Points: leaderboard.Int64(120), Wins: leaderboard.Int64(9), Matches: leaderboard.Int64(10)}}
	store.FetchTopFunc = func(ctx context.Context, n int) ([]leaderboard.Entry, error) { return entries, nil }

	got := svc.Leaderboard(context.Background())

	assert.Equal(t, svc.renderer.Leaderboard(entries, fixedNow), got)
	assert.Equal(t, []int{leaderboard.DefaultLimit}, store.FetchTopCalls)
	assert.Equal(t, 1, m.CommandsServed(Leaderboard))
}

func TestLeaderboard_StoreFaultRepliesWithNotice(t *testing.T) {
	svc, store, m := newTestService(t)
	store.FetchTopFunc = func(ctx context.Context, n int) ([]leaderboard.Entry, error) {
		return nil, fmt.Errorf("%w: connection refused", leaderboard.ErrQueryFailed)
	}

	assert.Equal(t, render.FailureNotice, svc.Leaderboard(context.Background()))
	assert.Equal(t, 1, m.CommandFailures(Leaderboard))
	assert.Zero(t, m.CommandsServed(Leaderboard))
}

func TestMyStats(t *testing.T) {
	ann := &leaderboard.Entry{DisplayName: "Ann", Points: leaderboard.Int64(120), Wins: leaderboard.Int64(9), Matches: leaderboard.Int64(10)}

	tests := []struct {
		name           string
		arg            string
		requester      string
		result         *leaderboard.Entry
		err            error
		wantIdentifier string
		want           string
	}{
		{
			name:           "explicit identifier",
			arg:            " ann ",
			requester:      "Bo",
			result:         ann,
			wantIdentifier: "ann",
			want:           "📊 **Ann** — 120 pts | 9/10 wins | 90% win rate",
		},
		{
			name:           "defaults to requester",
			arg:            "   ",
			requester:      "Ann",
			result:         ann,
			wantIdentifier: "Ann",
			want:           "📊 **Ann** — 120 pts | 9/10 wins | 90% win rate",
		},
		{
			name:           "not found",
			arg:            "zed",
			wantIdentifier: "zed",
			want:           "Couldn't find stats for `zed`.",
		},
		{
			name:           "store fault",
			arg:            "ann",
			err:            leaderboard.ErrQueryFailed,
			wantIdentifier: "ann",
			want:           render.FailureNotice,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)
			store.FetchOneFunc = func(ctx context.Context, identifier string) (*leaderboard.Entry, error) {
				return tt.result, tt.err
			}

			got := svc.MyStats(context.Background(), tt.arg, tt.requester)

			assert.Equal(t, tt.want, got)
			require.Len(t, store.FetchOneCalls, 1)
			assert.Equal(t, tt.wantIdentifier, store.FetchOneCalls[0])
		})
	}
}

func TestMyStats_NoIdentifierAtAll(t *testing.T) {
	svc, store, _ := newTestService(t)

	assert.Equal(t, "Couldn't find stats for ``.", svc.MyStats(context.Background(), "", ""))
	assert.Zero(t, store.Calls())
}

func TestMyStats_CountsOutcomes(t *testing.T) {
	svc, store, m := newTestService(t)
	store.FetchOneFunc = func(ctx context.Context, identifier string) (*leaderboard.Entry, error) {
		if identifier == "broken" {
			return nil, leaderboard.ErrQueryFailed
		}
		return nil, nil
	}

	svc.MyStats(context.Background(), "nobody", "")
	svc.MyStats(context.Background(), "broken", "")

	assert.Equal(t, 1, m.CommandsServed(MyStats))
	assert.Equal(t, 1, m.CommandFailures(MyStats))
}
