// Package testutil holds fixtures shared by store-backed tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "x",
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Tester",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	if role.Valid() {
		if err := db.Create(&models.UserRole{UserID: user.ID, Role: role}).Error; err != nil {
			t.Fatalf("create role for %s: %v", username, err)
		}
	}
	return user
}

// CreateHearing inserts a scheduled hearing between advocate and client.
func CreateHearing(t *testing.T, db *gorm.DB, caseNumber string, advocate, client *models.User) *models.Hearing {
	t.Helper()
	h := &models.Hearing{
		Title:       "Hearing " + caseNumber,
		HearingDate: time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC),
		Location:    "Court 4",
		CaseNumber:  caseNumber,
		AdvocateID:  advocate.ID,
		ClientID:    client.ID,
		Status:      models.StatusScheduled,
	}
	if err := db.Omit("Advocate", "Client", "Updates").Create(h).Error; err != nil {
		t.Fatalf("create hearing %s: %v", caseNumber, err)
	}
	return h
}

// CreateUpdate inserts a note on hearing authored by author (nil for none).
func CreateUpdate(t *testing.T, db *gorm.DB, hearing *models.Hearing, author *models.User, title string, createdAt time.Time) *models.HearingUpdate {
	t.Helper()
	u := &models.HearingUpdate{
		HearingID:         hearing.ID,
		UpdateType:        models.UpdateNote,
		Title:             title,
		Description:       title + " details",
		VisibleToAdvocate: true,
		VisibleToClient:   true,
		CreatedAt:         createdAt,
	}
	if author != nil {
		id := author.ID
		u.UpdatedByID = &id
	}
	if err := db.Omit("UpdatedBy").Create(u).Error; err != nil {
		t.Fatalf("create update %s: %v", title, err)
	}
	return u
}

// NewID is a readability alias for tests that need an unknown id.
func NewID() uuid.UUID {
	return uuid.New()
}
