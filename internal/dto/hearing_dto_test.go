package dto

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHearing(updates int) *models.Hearing {
	alice := models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Smith"}
	bob := models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com", FirstName: "Bob"}
	h := &models.Hearing{
		ID:          uuid.New(),
		Title:       "Bail",
		HearingDate: time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC),
		CaseNumber:  "CASE-001",
		AdvocateID:  alice.ID,
		ClientID:    bob.ID,
		Advocate:    alice,
		Client:      bob,
		Status:      models.StatusScheduled,
	}
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < updates; i++ {
		h.Updates = append(h.Updates, models.HearingUpdate{
			ID:          uuid.New(),
			HearingID:   h.ID,
			UpdatedByID: &alice.ID,
			UpdatedBy:   &alice,
			UpdateType:  models.UpdateNote,
			Title:       fmt.Sprintf("u%d", i),
			CreatedAt:   base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return h
}

func TestHearingSummaryHasNoNestedUpdates(t *testing.T) {
	resp := NewHearingSummary(sampleHearing(3))

	assert.Equal(t, "Alice Smith", resp.AdvocateName)
	assert.Equal(t, "Bob", resp.ClientName)
	assert.Equal(t, "bob@example.com", resp.ClientEmail)
	assert.NotNil(t, resp.Updates)
	assert.Empty(t, resp.Updates)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"updates":[]`)
	assert.Contains(t, string(raw), `"description":null`)
}

func TestHearingDetailCapsRecentUpdates(t *testing.T) {
	resp := NewHearingDetail(sampleHearing(7))

	assert.Equal(t, 7, resp.UpdatesCount)
	assert.Len(t, resp.Updates, 7)
	require.Len(t, resp.RecentUpdates, RecentUpdatesLimit)
	assert.Equal(t, "u0", resp.RecentUpdates[0].Title)
	assert.Equal(t, "u4", resp.RecentUpdates[4].Title)
}

func TestHearingDetailWithFewUpdates(t *testing.T) {
	resp := NewHearingDetail(sampleHearing(2))

	assert.Equal(t, 2, resp.UpdatesCount)
	assert.Len(t, resp.RecentUpdates, 2)

	empty := NewHearingDetail(sampleHearing(0))
	assert.Zero(t, empty.UpdatesCount)
	assert.NotNil(t, empty.RecentUpdates)
}

func TestUpdateResponseWithoutAuthor(t *testing.T) {
	u := &models.HearingUpdate{ID: uuid.New(), HearingID: uuid.New(), Title: "orphan"}
	resp := NewUpdateResponse(u)

	assert.Nil(t, resp.UpdatedBy)
	assert.Nil(t, resp.UpdatedByUsername)
	assert.Nil(t, resp.UpdatedByEmail)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"updated_by_username":null`)
}

func TestUserResponseRole(t *testing.T) {
	u := &models.User{ID: uuid.New(), Username: "alice"}

	withRole := NewUserResponse(u, models.RoleAdvocate)
	require.NotNil(t, withRole.Role)
	assert.Equal(t, "Advocate", *withRole.Role)

	assert.Nil(t, NewUserResponse(u, models.RoleNone).Role)
}
