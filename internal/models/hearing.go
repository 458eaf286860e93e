package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HearingStatus string

const (
	StatusScheduled HearingStatus = "scheduled"
	StatusCompleted HearingStatus = "completed"
	StatusPostponed HearingStatus = "postponed"
	StatusCancelled HearingStatus = "cancelled"
)

// HearingStatuses lists the accepted statuses in display order.
var HearingStatuses = []HearingStatus{StatusScheduled, StatusCompleted, StatusPostponed, StatusCancelled}

// Valid reports membership in HearingStatuses. Any status may follow any other.
func (s HearingStatus) Valid() bool {
	for _, v := range HearingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Hearing is one scheduled proceeding with exactly one advocate and one client.
type Hearing struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description *string       `gorm:"type:text" json:"description"`
	HearingDate time.Time     `gorm:"not null;index" json:"hearing_date"`
	Location    string        `gorm:"size:255" json:"location"`
	CaseNumber  string        `gorm:"size:100;not null;uniqueIndex" json:"case_number"`
	AdvocateID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"advocate"`
	ClientID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"client"`
	Status      HearingStatus `gorm:"size:20;not null;default:'scheduled';index" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Advocate User            `gorm:"foreignKey:AdvocateID;constraint:OnDelete:CASCADE" json:"-"`
	Client   User            `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	Updates  []HearingUpdate `gorm:"foreignKey:HearingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (h *Hearing) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.Status == "" {
		h.Status = StatusScheduled
	}
	return nil
}

func (Hearing) TableName() string {
	return "hearings"
}
