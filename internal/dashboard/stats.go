package dashboard

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// EventCounter reports how many events an organization has live.
type EventCounter interface {
	CountPublished(ctx context.Context, orgID uuid.UUID) (int, error)
}

// AttendeeCounter reports registration and check-in totals.
type AttendeeCounter interface {
	CountByStatus(ctx context.Context, orgID uuid.UUID) (total, checkedIn int, err error)
}

// CampaignCounter reports how many campaign emails went out.
type CampaignCounter interface {
	TotalSent(ctx context.Context, orgID uuid.UUID) (int, error)
}

// Stats is the dashboard landing-page summary.
type Stats struct {
	ActiveEvents   int `json:"activeEvents"`
	TotalAttendees int `json:"totalAttendees"`
	CheckedIn      int `json:"checkedIn"`
	EmailsSent     int `json:"emailsSent"`
}

// Aggregator gathers the three dashboard counts in parallel.
type Aggregator struct {
	events    EventCounter
	attendees AttendeeCounter
	campaigns CampaignCounter
}

// NewAggregator creates a dashboard aggregator.
func NewAggregator(events EventCounter, attendees AttendeeCounter, campaigns CampaignCounter) *Aggregator {
	return &Aggregator{events: events, attendees: attendees, campaigns: campaigns}
}

// Collect runs the three counts concurrently and joins the results. The first
// error wins; partial counts are discarded.
func (a *Aggregator) Collect(ctx context.Context, orgID uuid.UUID) (Stats, error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		stats Stats
		first error
	)
	fail := func(err error) {
		mu.Lock()
		if first == nil {
			first = err
		}
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		n, err := a.events.CountPublished(ctx, orgID)
		if err != nil {
			fail(err)
			return
		}
		stats.ActiveEvents = n
	}()
	go func() {
		defer wg.Done()
		total, checkedIn, err := a.attendees.CountByStatus(ctx, orgID)
		if err != nil {
			fail(err)
			return
		}
		stats.TotalAttendees = total
		stats.CheckedIn = checkedIn
	}()
	go func() {
		defer wg.Done()
		n, err := a.campaigns.TotalSent(ctx, orgID)
		if err != nil {
			fail(err)
			return
		}
		stats.EmailsSent = n
	}()
	wg.Wait()

	if first != nil {
		return Stats{}, first
	}
	return stats, nil
}
