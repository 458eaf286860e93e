package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpdateType string

const (
	UpdateStatus         UpdateType = "status"
	UpdateAdjournment    UpdateType = "adjournment"
	UpdateVerdict        UpdateType = "verdict"
	UpdateActionRequired UpdateType = "action_required"
	UpdateDocument       UpdateType = "document"
	UpdateNote           UpdateType = "note"
)

var UpdateTypes = []UpdateType{
	UpdateStatus, UpdateAdjournment, UpdateVerdict, UpdateActionRequired, UpdateDocument, UpdateNote,
}

func (t UpdateType) Valid() bool {
	for _, v := range UpdateTypes {
		if t == v {
			return true
		}
	}
	return false
}

// HearingUpdate is a note attached to a hearing. The visibility flags are
// audience hints for clients of the API; they do not restrict reads.
type HearingUpdate struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	HearingID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"hearing"`
	UpdatedByID       *uuid.UUID `gorm:"type:uuid;index" json:"updated_by"`
	UpdateType        UpdateType `gorm:"size:20;not null" json:"update_type"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	Description       string     `gorm:"type:text;not null" json:"description"`
	IsImportant       bool       `gorm:"not null;default:false" json:"is_important"`
	VisibleToAdvocate bool       `gorm:"not null" json:"visible_to_advocate"`
	VisibleToClient   bool       `gorm:"not null" json:"visible_to_client"`
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	UpdatedBy *User `gorm:"foreignKey:UpdatedByID;constraint:OnDelete:SET NULL" json:"-"`
}

func (u *HearingUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (HearingUpdate) TableName() string {
	return "hearing_updates"
}
