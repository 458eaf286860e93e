package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func updateInput(hearingID uuid.UUID) *dto.UpdateInput {
	return &dto.UpdateInput{
		Hearing:     &hearingID,
		UpdateType:  strPtr("adjournment"),
		Title:       strPtr("Adjourned"),
		Description: strPtr("Adjourned to next month"),
	}
}

func TestCreateUpdateAssignsCallerAsAuthor(t *testing.T) {
	f := newFixture(t)
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)

	u, err := f.updates.Create(context.Background(), f.bob.ID, updateInput(h.ID))
	require.NoError(t, err)

	require.NotNil(t, u.UpdatedByID)
	assert.Equal(t, f.bob.ID, *u.UpdatedByID)
	require.NotNil(t, u.UpdatedBy)
	assert.Equal(t, "bob", u.UpdatedBy.Username)
	assert.False(t, u.IsImportant)
	assert.True(t, u.VisibleToAdvocate)
	assert.True(t, u.VisibleToClient)
}

func TestCreateUpdateKeepsExplicitFalseFlags(t *testing.T) {
	f := newFixture(t)
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)

	in := updateInput(h.ID)
	in.VisibleToClient = boolPtr(false)
	in.IsImportant = boolPtr(true)
	u, err := f.updates.Create(context.Background(), f.alice.ID, in)
	require.NoError(t, err)

	var stored models.HearingUpdate
	require.NoError(t, f.db.First(&stored, "id = ?", u.ID).Error)
	assert.False(t, stored.VisibleToClient)
	assert.True(t, stored.VisibleToAdvocate)
	assert.True(t, stored.IsImportant)
}

func TestCreateUpdateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)

	var vErr *ValidationError

	in := updateInput(h.ID)
	in.Description = nil
	_, err := f.updates.Create(ctx, f.alice.ID, in)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "description", vErr.Field)

	in = updateInput(h.ID)
	in.UpdateType = strPtr("memo")
	_, err = f.updates.Create(ctx, f.alice.ID, in)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "update_type", vErr.Field)

	_, err = f.updates.Create(ctx, f.carol.ID, updateInput(h.ID))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "hearing", vErr.Field, "non-parties cannot attach updates")

	_, err = f.updates.Create(ctx, f.alice.ID, updateInput(uuid.New()))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "hearing", vErr.Field)
}

func TestListIgnoresVisibilityFlags(t *testing.T) {
	f := newFixture(t)
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)
	u := testutil.CreateUpdate(t, f.db, h, f.alice, "private", time.Now())
	u.VisibleToClient = false
	u.VisibleToAdvocate = false
	require.NoError(t, f.db.Omit("UpdatedBy").Save(u).Error)

	for _, user := range []*models.User{f.alice, f.bob} {
		got, err := f.updates.List(context.Background(), user.ID, UpdateFilter{})
		require.NoError(t, err)
		require.Len(t, got, 1, user.Username)
		assert.Equal(t, u.ID, got[0].ID)
	}

	got, err := f.updates.List(context.Background(), f.carol.ID, UpdateFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListUpdateFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h1 := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)
	h2 := testutil.CreateHearing(t, f.db, "CASE-002", f.alice, f.carol)
	base := time.Now().Add(-time.Hour)
	a := testutil.CreateUpdate(t, f.db, h1, f.alice, "Verdict delivered", base)
	testutil.CreateUpdate(t, f.db, h1, f.bob, "Bring documents", base.Add(time.Minute))
	c := testutil.CreateUpdate(t, f.db, h2, f.alice, "Hearing moved", base.Add(2*time.Minute))
	a.IsImportant = true
	require.NoError(t, f.db.Omit("UpdatedBy").Save(a).Error)

	got, err := f.updates.List(ctx, f.alice.ID, UpdateFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, c.ID, got[0].ID)

	got, err = f.updates.List(ctx, f.alice.ID, UpdateFilter{Hearing: &h1.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.updates.List(ctx, f.alice.ID, UpdateFilter{IsImportant: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	got, err = f.updates.List(ctx, f.alice.ID, UpdateFilter{Search: "verdict"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = f.updates.List(ctx, f.alice.ID, UpdateFilter{Ordering: "-is_important"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, got[0].ID)

	got, err = f.updates.List(ctx, f.alice.ID, UpdateFilter{UpdateType: "verdict"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMarkImportantIsIdempotent(t *testing.T) {
	f := newFixture(t)
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)
	u := testutil.CreateUpdate(t, f.db, h, f.alice, "note", time.Now())

	for i := 0; i < 2; i++ {
		got, err := f.updates.MarkImportant(context.Background(), f.bob.ID, u.ID)
		require.NoError(t, err)
		assert.True(t, got.IsImportant)
	}

	_, err := f.updates.MarkImportant(context.Background(), f.carol.ID, u.ID)
	assert.ErrorIs(t, err, ErrUpdateNotFound)
}

func TestSetVisibilityIsPartial(t *testing.T) {
	f := newFixture(t)
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)
	u := testutil.CreateUpdate(t, f.db, h, f.alice, "note", time.Now())

	got, err := f.updates.SetVisibility(context.Background(), f.alice.ID, u.ID, &dto.VisibilityRequest{VisibleToClient: boolPtr(false)})
	require.NoError(t, err)
	assert.True(t, got.VisibleToAdvocate)
	assert.False(t, got.VisibleToClient)

	got, err = f.updates.SetVisibility(context.Background(), f.alice.ID, u.ID, &dto.VisibilityRequest{})
	require.NoError(t, err)
	assert.True(t, got.VisibleToAdvocate)
	assert.False(t, got.VisibleToClient)
}

func TestForHearing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)
	testutil.CreateUpdate(t, f.db, h, f.alice, "one", time.Now())

	_, _, err := f.updates.ForHearing(ctx, f.carol.ID, h.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = f.updates.ForHearing(ctx, f.alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrHearingNotFound)

	got, updates, err := f.updates.ForHearing(ctx, f.bob.ID, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.ID, got.ID)
	assert.Len(t, updates, 1)
}

func TestByAuthorSurvivesLostStanding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)
	testutil.CreateUpdate(t, f.db, h, f.bob, "bob's note", time.Now())

	client := f.carol.ID
	_, err := f.hearings.Patch(ctx, f.alice.ID, h.ID, &dto.HearingInput{Client: &client})
	require.NoError(t, err)

	mine, err := f.updates.ByAuthor(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "bob's note", mine[0].Title)

	visible, err := f.updates.List(ctx, f.bob.ID, UpdateFilter{})
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestPatchUpdateNeverChangesAuthor(t *testing.T) {
	f := newFixture(t)
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)
	u := testutil.CreateUpdate(t, f.db, h, f.alice, "note", time.Now())

	got, err := f.updates.Patch(context.Background(), f.bob.ID, u.ID, &dto.UpdateInput{Title: strPtr("edited")})
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Title)
	require.NotNil(t, got.UpdatedByID)
	assert.Equal(t, f.alice.ID, *got.UpdatedByID)
}

func TestDeleteUpdate(t *testing.T) {
	f := newFixture(t)
	h := testutil.CreateHearing(t, f.db, "CASE-001", f.alice, f.bob)
	u := testutil.CreateUpdate(t, f.db, h, f.alice, "note", time.Now())

	assert.ErrorIs(t, f.updates.Delete(context.Background(), f.carol.ID, u.ID), ErrUpdateNotFound)
	require.NoError(t, f.updates.Delete(context.Background(), f.bob.ID, u.ID))
	_, err := f.updates.Get(context.Background(), f.alice.ID, u.ID)
	assert.ErrorIs(t, err, ErrUpdateNotFound)
}
