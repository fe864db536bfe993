package events

import "github.com/eventflow/backend/internal/models"

// Stats aggregates an organization's events for the events page header.
type Stats struct {
	Total              int `json:"total"`
	Published          int `json:"published"`
	Draft              int `json:"draft"`
	TotalRegistrations int `json:"totalRegistrations"`
	TotalCheckIns      int `json:"totalCheckIns"`
}

// ComputeStats folds over the full event list. Recomputed on every request;
// no incremental maintenance.
func ComputeStats(list []models.Event) Stats {
	var s Stats
	s.Total = len(list)
	for _, e := range list {
		switch e.Status {
		case models.EventStatusPublished:
			s.Published++
		case models.EventStatusDraft:
			s.Draft++
		}
		s.TotalRegistrations += e.Registrations
		s.TotalCheckIns += e.CheckIns
	}
	return s
}
