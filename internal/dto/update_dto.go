package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/google/uuid"
)

// UpdateInput is the writable shape of a hearing update. The author is not
// part of it; it always comes from the authenticated caller.
type UpdateInput struct {
	Hearing           *uuid.UUID `json:"hearing"`
	UpdateType        *string    `json:"update_type"`
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	IsImportant       *bool      `json:"is_important"`
	VisibleToAdvocate *bool      `json:"visible_to_advocate"`
	VisibleToClient   *bool      `json:"visible_to_client"`
}

type VisibilityRequest struct {
	VisibleToAdvocate *bool `json:"visible_to_advocate"`
	VisibleToClient   *bool `json:"visible_to_client"`
}

type UpdateResponse struct {
	ID                uuid.UUID         `json:"id"`
	Hearing           uuid.UUID         `json:"hearing"`
	UpdatedBy         *uuid.UUID        `json:"updated_by"`
	UpdatedByUsername *string           `json:"updated_by_username"`
	UpdatedByEmail    *string           `json:"updated_by_email"`
	UpdateType        models.UpdateType `json:"update_type"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	IsImportant       bool              `json:"is_important"`
	VisibleToAdvocate bool              `json:"visible_to_advocate"`
	VisibleToClient   bool              `json:"visible_to_client"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type UpdateMessageResponse struct {
	Message string         `json:"message"`
	Update  UpdateResponse `json:"update"`
}

type MyUpdatesResponse struct {
	Count   int              `json:"count"`
	Updates []UpdateResponse `json:"updates"`
}

type HearingUpdatesResponse struct {
	Hearing HearingResponse  `json:"hearing"`
	Updates []UpdateResponse `json:"updates"`
	Count   int              `json:"count"`
}

// NewUpdateResponse expects UpdatedBy to be preloaded when UpdatedByID is set.
func NewUpdateResponse(u *models.HearingUpdate) UpdateResponse {
	resp := UpdateResponse{
		ID:                u.ID,
		Hearing:           u.HearingID,
		UpdatedBy:         u.UpdatedByID,
		UpdateType:        u.UpdateType,
		Title:             u.Title,
		Description:       u.Description,
		IsImportant:       u.IsImportant,
		VisibleToAdvocate: u.VisibleToAdvocate,
		VisibleToClient:   u.VisibleToClient,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
	if u.UpdatedBy != nil && u.UpdatedByID != nil {
		username, email := u.UpdatedBy.Username, u.UpdatedBy.Email
		resp.UpdatedByUsername = &username
		resp.UpdatedByEmail = &email
	}
	return resp
}

func NewUpdateList(updates []models.HearingUpdate) []UpdateResponse {
	out := make([]UpdateResponse, 0, len(updates))
	for i := range updates {
		out = append(out, NewUpdateResponse(&updates[i]))
	}
	return out
}
