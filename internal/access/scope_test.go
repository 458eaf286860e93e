package access_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/access"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAccessHearing(t *testing.T) {
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	h := &models.Hearing{ID: uuid.New(), AdvocateID: alice, ClientID: bob}

	assert.True(t, access.CanAccessHearing(alice, h))
	assert.True(t, access.CanAccessHearing(bob, h))
	assert.False(t, access.CanAccessHearing(carol, h))
	assert.False(t, access.CanAccessHearing(uuid.Nil, h))
	assert.False(t, access.CanAccessHearing(alice, nil))
}

func TestCanAccessUpdateIgnoresVisibilityFlags(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	h := &models.Hearing{ID: uuid.New(), AdvocateID: alice, ClientID: bob}
	u := &models.HearingUpdate{HearingID: h.ID, VisibleToAdvocate: false, VisibleToClient: false}

	assert.True(t, access.CanAccessUpdate(alice, u, h))
	assert.True(t, access.CanAccessUpdate(bob, u, h))

	other := &models.Hearing{ID: uuid.New(), AdvocateID: alice, ClientID: bob}
	assert.False(t, access.CanAccessUpdate(alice, u, other))
}

// The query scopes must select exactly the rows the predicates accept.
func TestScopesMatchPredicates(t *testing.T) {
	db := testutil.NewDB(t)
	users := []*models.User{
		testutil.CreateUser(t, db, "alice", models.RoleAdvocate),
		testutil.CreateUser(t, db, "bob", models.RoleClient),
		testutil.CreateUser(t, db, "carol", models.RoleClient),
		testutil.CreateUser(t, db, "dave", models.RoleNone),
	}

	var hearings []*models.Hearing
	n := 0
	for i, adv := range users {
		for j, cli := range users {
			if i == j || (i+j)%3 == 0 {
				continue
			}
			n++
			h := testutil.CreateHearing(t, db, fmt.Sprintf("CASE-%03d", n), adv, cli)
			hearings = append(hearings, h)
			u := testutil.CreateUpdate(t, db, h, adv, "note", time.Now())
			u.VisibleToClient = false
			require.NoError(t, db.Save(u).Error)
		}
	}

	for _, user := range users {
		var got []models.Hearing
		require.NoError(t, db.Scopes(access.VisibleHearings(user.ID)).Find(&got).Error)

		want := map[uuid.UUID]bool{}
		for _, h := range hearings {
			if access.CanAccessHearing(user.ID, h) {
				want[h.ID] = true
			}
		}
		assert.Len(t, got, len(want), "hearings for %s", user.Username)
		for _, h := range got {
			assert.True(t, want[h.ID], "unexpected hearing %s for %s", h.CaseNumber, user.Username)
		}

		var updates []models.HearingUpdate
		require.NoError(t, db.Scopes(access.VisibleUpdates(user.ID)).Find(&updates).Error)
		assert.Len(t, updates, len(want), "updates for %s", user.Username)
		for _, u := range updates {
			assert.True(t, want[u.HearingID])
		}
	}
}

func TestVisibleHearingsExcludesStrangers(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleAdvocate)
	bob := testutil.CreateUser(t, db, "bob", models.RoleClient)
	carol := testutil.CreateUser(t, db, "carol", models.RoleClient)
	testutil.CreateHearing(t, db, "CASE-001", alice, bob)

	var count int64
	require.NoError(t, db.Model(&models.Hearing{}).Scopes(access.VisibleHearings(carol.ID)).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, db.Model(&models.Hearing{}).Scopes(access.VisibleHearings(alice.ID)).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
