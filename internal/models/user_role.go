package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleNone     Role = ""
	RoleAdvocate Role = "advocate"
	RoleClient   Role = "client"
)

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	return r == RoleAdvocate || r == RoleClient
}

// Display returns the human label, or "" for RoleNone.
func (r Role) Display() string {
	switch r {
	case RoleAdvocate:
		return "Advocate"
	case RoleClient:
		return "Client"
	}
	return ""
}

// UserRole links an identity to at most one role.
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Role      Role      `gorm:"size:10;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (UserRole) TableName() string {
	return "user_roles"
}
