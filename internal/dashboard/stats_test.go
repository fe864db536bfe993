package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	published int
	err       error
}

func (f fakeEvents) CountPublished(context.Context, uuid.UUID) (int, error) {
	return f.published, f.err
}

type fakeAttendees struct {
	total, checkedIn int
	err              error
}

func (f fakeAttendees) CountByStatus(context.Context, uuid.UUID) (int, int, error) {
	return f.total, f.checkedIn, f.err
}

type fakeCampaigns struct {
	sent int
	err  error
}

func (f fakeCampaigns) TotalSent(context.Context, uuid.UUID) (int, error) {
	return f.sent, f.err
}

func TestCollect(t *testing.T) {
	agg := NewAggregator(
		fakeEvents{published: 3},
		fakeAttendees{total: 120, checkedIn: 45},
		fakeCampaigns{sent: 300},
	)

	stats, err := agg.Collect(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Equal(t, Stats{ActiveEvents: 3, TotalAttendees: 120, CheckedIn: 45, EmailsSent: 300}, stats)
}

func TestCollectEmptyOrganization(t *testing.T) {
	agg := NewAggregator(fakeEvents{}, fakeAttendees{}, fakeCampaigns{})

	stats, err := agg.Collect(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Equal(t, Stats{}, stats)
}

func TestCollectPropagatesError(t *testing.T) {
	boom := errors.New("attendee count failed")
	agg := NewAggregator(
		fakeEvents{published: 3},
		fakeAttendees{err: boom},
		fakeCampaigns{sent: 300},
	)

	_, err := agg.Collect(context.Background(), uuid.New())
	require.ErrorIs(t, err, boom)
}
