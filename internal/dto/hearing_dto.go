package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/google/uuid"
)

// RecentUpdatesLimit caps the recent_updates preview in the detail shape.
const RecentUpdatesLimit = 5

// HearingInput carries create, replace and partial-update payloads. Nil
// fields were not supplied.
type HearingInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	HearingDate *time.Time `json:"hearing_date"`
	Location    *string    `json:"location"`
	CaseNumber  *string    `json:"case_number"`
	Advocate    *uuid.UUID `json:"advocate"`
	Client      *uuid.UUID `json:"client"`
	Status      *string    `json:"status"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// HearingResponse is the summary shape. Updates is always empty here; the
// detail shape fills it.
type HearingResponse struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Description   *string              `json:"description"`
	HearingDate   time.Time            `json:"hearing_date"`
	Location      string               `json:"location"`
	CaseNumber    string               `json:"case_number"`
	Advocate      uuid.UUID            `json:"advocate"`
	AdvocateName  string               `json:"advocate_name"`
	AdvocateEmail string               `json:"advocate_email"`
	Client        uuid.UUID            `json:"client"`
	ClientName    string               `json:"client_name"`
	ClientEmail   string               `json:"client_email"`
	Status        models.HearingStatus `json:"status"`
	Updates       []UpdateResponse     `json:"updates"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type HearingDetailResponse struct {
	HearingResponse
	UpdatesCount  int              `json:"updates_count"`
	RecentUpdates []UpdateResponse `json:"recent_updates"`
}

type HearingMessageResponse struct {
	Message string          `json:"message"`
	Hearing HearingResponse `json:"hearing"`
}

type MyHearingsResponse struct {
	TotalCount int               `json:"total_count"`
	Hearings   []HearingResponse `json:"hearings"`
	AsAdvocate []HearingResponse `json:"as_advocate"`
	AsClient   []HearingResponse `json:"as_client"`
}

type StatsResponse struct {
	TotalHearings    int64 `json:"total_hearings"`
	Scheduled        int64 `json:"scheduled"`
	Completed        int64 `json:"completed"`
	Postponed        int64 `json:"postponed"`
	Cancelled        int64 `json:"cancelled"`
	TotalUpdates     int64 `json:"total_updates"`
	ImportantUpdates int64 `json:"important_updates"`
}

// NewHearingSummary expects Advocate and Client to be preloaded.
func NewHearingSummary(h *models.Hearing) HearingResponse {
	return HearingResponse{
		ID:            h.ID,
		Title:         h.Title,
		Description:   h.Description,
		HearingDate:   h.HearingDate,
		Location:      h.Location,
		CaseNumber:    h.CaseNumber,
		Advocate:      h.AdvocateID,
		AdvocateName:  h.Advocate.FullName(),
		AdvocateEmail: h.Advocate.Email,
		Client:        h.ClientID,
		ClientName:    h.Client.FullName(),
		ClientEmail:   h.Client.Email,
		Status:        h.Status,
		Updates:       []UpdateResponse{},
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

// NewHearingDetail expects Updates to be preloaded newest first, each with
// its author.
func NewHearingDetail(h *models.Hearing) HearingDetailResponse {
	resp := HearingDetailResponse{HearingResponse: NewHearingSummary(h)}
	resp.Updates = NewUpdateList(h.Updates)
	resp.UpdatesCount = len(resp.Updates)

	n := len(resp.Updates)
	if n > RecentUpdatesLimit {
		n = RecentUpdatesLimit
	}
	resp.RecentUpdates = resp.Updates[:n:n]
	return resp
}

func NewHearingList(hearings []models.Hearing) []HearingResponse {
	out := make([]HearingResponse, 0, len(hearings))
	for i := range hearings {
		out = append(out, NewHearingSummary(&hearings[i]))
	}
	return out
}
