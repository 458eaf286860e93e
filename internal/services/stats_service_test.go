package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCountsVisibleHearingsAndUpdates(t *testing.T) {
	f := newFixture(t)
	statuses := []models.HearingStatus{
		models.StatusScheduled, models.StatusScheduled, models.StatusScheduled,
		models.StatusCompleted, models.StatusCancelled,
	}
	var hearings []*models.Hearing
	for i, st := range statuses {
		h := testutil.CreateHearing(t, f.db, fmt.Sprintf("CASE-%03d", i+1), f.alice, f.bob)
		h.Status = st
		require.NoError(t, f.db.Omit("Advocate", "Client", "Updates").Save(h).Error)
		hearings = append(hearings, h)
	}
	for i := 0; i < 10; i++ {
		u := testutil.CreateUpdate(t, f.db, hearings[i%len(hearings)], f.alice, "note", time.Now())
		if i < 2 {
			u.IsImportant = true
			require.NoError(t, f.db.Omit("UpdatedBy").Save(u).Error)
		}
	}
	// noise the caller cannot see
	other := testutil.CreateHearing(t, f.db, "CASE-900", f.carol, f.bob)
	testutil.CreateUpdate(t, f.db, other, f.carol, "hidden", time.Now())

	got, err := f.stats.Stats(context.Background(), f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.StatsResponse{
		TotalHearings:    5,
		Scheduled:        3,
		Completed:        1,
		Postponed:        0,
		Cancelled:        1,
		TotalUpdates:     10,
		ImportantUpdates: 2,
	}, got)
}

func TestStatsForStranger(t *testing.T) {
	f := newFixture(t)
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)
	testutil.CreateUpdate(t, f.db, h, f.alice, "note", time.Now())

	got, err := f.stats.Stats(context.Background(), f.carol.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.StatsResponse{}, got)
}
