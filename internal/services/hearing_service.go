package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/access"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var hearingOrderings = map[string]string{
	"hearing_date":  "hearings.hearing_date ASC",
	"-hearing_date": "hearings.hearing_date DESC",
	"created_at":    "hearings.created_at ASC",
	"-created_at":   "hearings.created_at DESC",
}

// HearingFilter holds the list query parameters. Empty fields do not filter.
type HearingFilter struct {
	Status     string
	CaseNumber string
	Search     string
	Ordering   string
}

type HearingService struct {
	db *gorm.DB
}

func NewHearingService(db *gorm.DB) *HearingService {
	return &HearingService{db: db}
}

func (s *HearingService) visible(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Hearing{}).
		Scopes(access.VisibleHearings(userID)).
		Preload("Advocate").
		Preload("Client")
}

func (s *HearingService) List(ctx context.Context, userID uuid.UUID, f HearingFilter) ([]models.Hearing, error) {
	query := s.visible(ctx, userID)
	if f.Status != "" {
		query = query.Where("hearings.status = ?", f.Status)
	}
	if f.CaseNumber != "" {
		query = query.Where("hearings.case_number = ?", f.CaseNumber)
	}
	query = applySearch(query, f.Search, "hearings.title", "hearings.case_number", "hearings.description")
	query = applyOrdering(query, f.Ordering, hearingOrderings, "hearings.hearing_date DESC")

	var hearings []models.Hearing
	if err := query.Find(&hearings).Error; err != nil {
		return nil, fmt.Errorf("failed to list hearings: %w", err)
	}
	return hearings, nil
}

// Get returns a visible hearing. Invisible and missing hearings are both
// ErrHearingNotFound.
func (s *HearingService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Hearing, error) {
	return s.first(s.visible(ctx, userID), id)
}

// GetDetail is Get with all updates loaded, newest first.
func (s *HearingService) GetDetail(ctx context.Context, userID, id uuid.UUID) (*models.Hearing, error) {
	query := s.visible(ctx, userID).
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("hearing_updates.created_at DESC")
		}).
		Preload("Updates.UpdatedBy")
	return s.first(query, id)
}

func (s *HearingService) first(query *gorm.DB, id uuid.UUID) (*models.Hearing, error) {
	var h models.Hearing
	if err := query.Where("hearings.id = ?", id).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHearingNotFound
		}
		return nil, fmt.Errorf("failed to load hearing: %w", err)
	}
	return &h, nil
}

// LookupForParty fetches a hearing regardless of visibility, then reports
// ErrForbidden if the caller is not a party to it.
func (s *HearingService) LookupForParty(ctx context.Context, userID, id uuid.UUID) (*models.Hearing, error) {
	var h models.Hearing
	err := s.db.WithContext(ctx).Preload("Advocate").Preload("Client").First(&h, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHearingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hearing: %w", err)
	}
	if !access.CanAccessHearing(userID, &h) {
		return nil, ErrForbidden
	}
	return &h, nil
}

// Create stores a new hearing. Any authenticated caller may create one, and
// need not be a party to it.
func (s *HearingService) Create(ctx context.Context, userID uuid.UUID, in *dto.HearingInput) (*models.Hearing, error) {
	h := models.Hearing{Status: models.StatusScheduled}
	if err := s.apply(ctx, &h, in, false); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&h).Error; err != nil {
		return nil, translateHearingWriteError(err)
	}
	slog.Info("hearing created", "hearing_id", h.ID.String(), "user_id", userID.String(), "case_number", h.CaseNumber)
	return s.reload(ctx, &h)
}

// Replace overwrites every writable field; all required fields must be present.
func (s *HearingService) Replace(ctx context.Context, userID, id uuid.UUID, in *dto.HearingInput) (*models.Hearing, error) {
	return s.update(ctx, userID, id, in, false)
}

// Patch changes only the supplied fields.
func (s *HearingService) Patch(ctx context.Context, userID, id uuid.UUID, in *dto.HearingInput) (*models.Hearing, error) {
	return s.update(ctx, userID, id, in, true)
}

func (s *HearingService) update(ctx context.Context, userID, id uuid.UUID, in *dto.HearingInput, partial bool) (*models.Hearing, error) {
	h, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, h, in, partial); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(h).Error; err != nil {
		return nil, translateHearingWriteError(err)
	}
	return s.reload(ctx, h)
}

// Delete removes the hearing and every update attached to it.
func (s *HearingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	h, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hearing_id = ?", h.ID).Delete(&models.HearingUpdate{}).Error; err != nil {
			return fmt.Errorf("failed to delete updates: %w", err)
		}
		if err := tx.Delete(&models.Hearing{}, "id = ?", h.ID).Error; err != nil {
			return fmt.Errorf("failed to delete hearing: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("hearing deleted", "hearing_id", h.ID.String(), "user_id", userID.String())
	return nil
}

// Updates lists the updates of a visible hearing, newest first.
func (s *HearingService) Updates(ctx context.Context, userID, id uuid.UUID) ([]models.HearingUpdate, error) {
	h, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.updatesOf(ctx, h.ID)
}

func (s *HearingService) updatesOf(ctx context.Context, hearingID uuid.UUID) ([]models.HearingUpdate, error) {
	var updates []models.HearingUpdate
	err := s.db.WithContext(ctx).
		Preload("UpdatedBy").
		Where("hearing_id = ?", hearingID).
		Order("created_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	return updates, nil
}

// ChangeStatus sets any of the four statuses; there is no transition graph.
func (s *HearingService) ChangeStatus(ctx context.Context, userID, id uuid.UUID, status string) (*models.Hearing, error) {
	h, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	next := models.HearingStatus(status)
	if !next.Valid() {
		return nil, invalid("status", "Invalid status %q. Valid options: %s", status, statusOptions())
	}

	if err := s.db.WithContext(ctx).Model(&models.Hearing{}).Where("id = ?", h.ID).Update("status", next).Error; err != nil {
		return nil, fmt.Errorf("failed to change status: %w", err)
	}
	slog.Info("hearing status changed", "hearing_id", h.ID.String(), "user_id", userID.String(), "from", string(h.Status), "to", status)
	return s.reload(ctx, h)
}

// MyHearings splits the visible set by the caller's seat on each hearing.
func (s *HearingService) MyHearings(ctx context.Context, userID uuid.UUID) (all, asAdvocate, asClient []models.Hearing, err error) {
	all, err = s.List(ctx, userID, HearingFilter{})
	if err != nil {
		return nil, nil, nil, err
	}
	asAdvocate = make([]models.Hearing, 0)
	asClient = make([]models.Hearing, 0)
	for _, h := range all {
		if h.AdvocateID == userID {
			asAdvocate = append(asAdvocate, h)
		}
		if h.ClientID == userID {
			asClient = append(asClient, h)
		}
	}
	return all, asAdvocate, asClient, nil
}

func (s *HearingService) reload(ctx context.Context, h *models.Hearing) (*models.Hearing, error) {
	var fresh models.Hearing
	if err := s.db.WithContext(ctx).Preload("Advocate").Preload("Client").First(&fresh, "id = ?", h.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload hearing: %w", err)
	}
	return &fresh, nil
}

func (s *HearingService) apply(ctx context.Context, h *models.Hearing, in *dto.HearingInput, partial bool) error {
	if !partial {
		switch {
		case in.Title == nil:
			return required("title")
		case in.HearingDate == nil:
			return required("hearing_date")
		case in.CaseNumber == nil:
			return required("case_number")
		case in.Advocate == nil:
			return required("advocate")
		case in.Client == nil:
			return required("client")
		}
		// full replace resets optional fields that were left out
		h.Description = in.Description
		h.Location = ""
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return invalid("title", "This field may not be blank.")
		}
		if len(title) > 255 {
			return invalid("title", "Ensure this field has no more than 255 characters.")
		}
		h.Title = title
	}
	if partial && in.Description != nil {
		h.Description = in.Description
	}
	if in.HearingDate != nil {
		h.HearingDate = in.HearingDate.UTC()
	}
	if in.Location != nil {
		if len(*in.Location) > 255 {
			return invalid("location", "Ensure this field has no more than 255 characters.")
		}
		h.Location = *in.Location
	}
	if in.CaseNumber != nil {
		caseNumber := strings.TrimSpace(*in.CaseNumber)
		if caseNumber == "" {
			return invalid("case_number", "This field may not be blank.")
		}
		if len(caseNumber) > 100 {
			return invalid("case_number", "Ensure this field has no more than 100 characters.")
		}
		taken, err := s.caseNumberTaken(ctx, caseNumber, h.ID)
		if err != nil {
			return err
		}
		if taken {
			return invalid("case_number", "hearing with this case number already exists.")
		}
		h.CaseNumber = caseNumber
	}
	if in.Advocate != nil {
		if err := s.requireUser(ctx, "advocate", *in.Advocate); err != nil {
			return err
		}
		h.AdvocateID = *in.Advocate
	}
	if in.Client != nil {
		if err := s.requireUser(ctx, "client", *in.Client); err != nil {
			return err
		}
		h.ClientID = *in.Client
	}
	if in.Status != nil {
		status := models.HearingStatus(*in.Status)
		if !status.Valid() {
			return invalid("status", "%q is not a valid choice.", *in.Status)
		}
		h.Status = status
	}
	return nil
}

func (s *HearingService) caseNumberTaken(ctx context.Context, caseNumber string, self uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Hearing{}).
		Where("case_number = ? AND id <> ?", caseNumber, self).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check case number: %w", err)
	}
	return count > 0, nil
}

func (s *HearingService) requireUser(ctx context.Context, field string, id uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check %s: %w", field, err)
	}
	if count == 0 {
		return invalid(field, "Invalid pk %q - object does not exist.", id.String())
	}
	return nil
}

func translateHearingWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return invalid("case_number", "hearing with this case number already exists.")
	}
	return fmt.Errorf("failed to save hearing: %w", err)
}

func statusOptions() string {
	names := make([]string, len(models.HearingStatuses))
	for i, st := range models.HearingStatuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}
