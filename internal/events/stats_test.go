package events

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventflow/backend/internal/models"
)

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil)
	require.Equal(t, Stats{}, s)
}

func TestComputeStats(t *testing.T) {
	list := []models.Event{
		{Status: models.EventStatusPublished, Registrations: 10, CheckIns: 4},
		{Status: models.EventStatusPublished, Registrations: 25, CheckIns: 25},
		{Status: models.EventStatusDraft, Registrations: 0, CheckIns: 0},
		{Status: models.EventStatusCompleted, Registrations: 7, CheckIns: 5},
	}

	s := ComputeStats(list)
	require.Equal(t, 4, s.Total)
	require.Equal(t, 2, s.Published)
	require.Equal(t, 1, s.Draft)
	require.Equal(t, 42, s.TotalRegistrations)
	require.Equal(t, 34, s.TotalCheckIns)
}
