// Package access decides which hearings and updates an identity can reach.
//
// Standing on a hearing is purely positional: the caller is its advocate or
// its client. Roles held by the identity play no part, and the per-update
// visibility flags are not consulted.
package access

import (
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CanAccessHearing reports whether userID is a party to h.
func CanAccessHearing(userID uuid.UUID, h *models.Hearing) bool {
	if h == nil || userID == uuid.Nil {
		return false
	}
	return h.AdvocateID == userID || h.ClientID == userID
}

// CanAccessUpdate reports whether userID is a party to the update's hearing.
func CanAccessUpdate(userID uuid.UUID, u *models.HearingUpdate, parent *models.Hearing) bool {
	if u == nil || parent == nil || u.HearingID != parent.ID {
		return false
	}
	return CanAccessHearing(userID, parent)
}

// VisibleHearings is the query form of CanAccessHearing.
func VisibleHearings(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("hearings.advocate_id = ? OR hearings.client_id = ?", userID, userID)
	}
}

// VisibleHearingIDs returns a subquery selecting ids of hearings visible to userID.
func VisibleHearingIDs(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Hearing{}).
		Select("hearings.id").
		Scopes(VisibleHearings(userID))
}

// VisibleUpdates limits hearing_updates to those whose hearing is visible to userID.
func VisibleUpdates(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("hearing_updates.hearing_id IN (?)", VisibleHearingIDs(db, userID))
	}
}
