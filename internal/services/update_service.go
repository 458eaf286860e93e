package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/access"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var updateOrderings = map[string]string{
	"created_at":    "hearing_updates.created_at ASC",
	"-created_at":   "hearing_updates.created_at DESC",
	"is_important":  "hearing_updates.is_important ASC, hearing_updates.created_at DESC",
	"-is_important": "hearing_updates.is_important DESC, hearing_updates.created_at DESC",
}

type UpdateFilter struct {
	Hearing     *uuid.UUID
	UpdateType  string
	IsImportant *bool
	Search      string
	Ordering    string
}

type UpdateService struct {
	db       *gorm.DB
	hearings *HearingService
}

func NewUpdateService(db *gorm.DB, hearings *HearingService) *UpdateService {
	return &UpdateService{db: db, hearings: hearings}
}

func (s *UpdateService) visible(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.HearingUpdate{}).
		Scopes(access.VisibleUpdates(userID)).
		Preload("UpdatedBy")
}

// List returns every update on hearings visible to the caller. The
// visible_to_* flags are not applied.
func (s *UpdateService) List(ctx context.Context, userID uuid.UUID, f UpdateFilter) ([]models.HearingUpdate, error) {
	query := s.visible(ctx, userID)
	if f.Hearing != nil {
		query = query.Where("hearing_updates.hearing_id = ?", *f.Hearing)
	}
	if f.UpdateType != "" {
		query = query.Where("hearing_updates.update_type = ?", f.UpdateType)
	}
	if f.IsImportant != nil {
		query = query.Where("hearing_updates.is_important = ?", *f.IsImportant)
	}
	query = applySearch(query, f.Search, "hearing_updates.title", "hearing_updates.description")
	query = applyOrdering(query, f.Ordering, updateOrderings, "hearing_updates.created_at DESC")

	var updates []models.HearingUpdate
	if err := query.Find(&updates).Error; err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}
	return updates, nil
}

func (s *UpdateService) Get(ctx context.Context, userID, id uuid.UUID) (*models.HearingUpdate, error) {
	var u models.HearingUpdate
	if err := s.visible(ctx, userID).Where("hearing_updates.id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUpdateNotFound
		}
		return nil, fmt.Errorf("failed to load update: %w", err)
	}
	return &u, nil
}

// Create stores a new update authored by the caller on a hearing the caller
// is party to.
func (s *UpdateService) Create(ctx context.Context, userID uuid.UUID, in *dto.UpdateInput) (*models.HearingUpdate, error) {
	author := userID
	u := models.HearingUpdate{
		UpdatedByID:       &author,
		VisibleToAdvocate: true,
		VisibleToClient:   true,
	}
	if err := s.apply(ctx, userID, &u, in, false); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create update: %w", err)
	}
	return s.Get(ctx, userID, u.ID)
}

func (s *UpdateService) Replace(ctx context.Context, userID, id uuid.UUID, in *dto.UpdateInput) (*models.HearingUpdate, error) {
	return s.update(ctx, userID, id, in, false)
}

func (s *UpdateService) Patch(ctx context.Context, userID, id uuid.UUID, in *dto.UpdateInput) (*models.HearingUpdate, error) {
	return s.update(ctx, userID, id, in, true)
}

func (s *UpdateService) update(ctx context.Context, userID, id uuid.UUID, in *dto.UpdateInput, partial bool) (*models.HearingUpdate, error) {
	u, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, userID, u, in, partial); err != nil {
		return nil, err
	}
	return s.save(ctx, userID, u)
}

func (s *UpdateService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	u, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.HearingUpdate{}, "id = ?", u.ID).Error; err != nil {
		return fmt.Errorf("failed to delete update: %w", err)
	}
	return nil
}

// ForHearing resolves hearing_id with the party check of
// HearingService.LookupForParty and returns the hearing with its updates.
func (s *UpdateService) ForHearing(ctx context.Context, userID, hearingID uuid.UUID) (*models.Hearing, []models.HearingUpdate, error) {
	h, err := s.hearings.LookupForParty(ctx, userID, hearingID)
	if err != nil {
		return nil, nil, err
	}
	updates, err := s.hearings.updatesOf(ctx, h.ID)
	if err != nil {
		return nil, nil, err
	}
	return h, updates, nil
}

// ByAuthor lists updates written by the caller. It is keyed on authorship
// only, so it can include hearings the caller is no longer party to.
func (s *UpdateService) ByAuthor(ctx context.Context, userID uuid.UUID) ([]models.HearingUpdate, error) {
	var updates []models.HearingUpdate
	err := s.db.WithContext(ctx).
		Preload("UpdatedBy").
		Where("updated_by_id = ?", userID).
		Order("created_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list authored updates: %w", err)
	}
	return updates, nil
}

// MarkImportant sets is_important. Repeating it is harmless.
func (s *UpdateService) MarkImportant(ctx context.Context, userID, id uuid.UUID) (*models.HearingUpdate, error) {
	u, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	u.IsImportant = true
	return s.save(ctx, userID, u)
}

// SetVisibility applies whichever flags are present and leaves the rest.
func (s *UpdateService) SetVisibility(ctx context.Context, userID, id uuid.UUID, req *dto.VisibilityRequest) (*models.HearingUpdate, error) {
	u, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.VisibleToAdvocate != nil {
		u.VisibleToAdvocate = *req.VisibleToAdvocate
	}
	if req.VisibleToClient != nil {
		u.VisibleToClient = *req.VisibleToClient
	}
	return s.save(ctx, userID, u)
}

func (s *UpdateService) save(ctx context.Context, userID uuid.UUID, u *models.HearingUpdate) (*models.HearingUpdate, error) {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error; err != nil {
		return nil, fmt.Errorf("failed to save update: %w", err)
	}
	return s.Get(ctx, userID, u.ID)
}

func (s *UpdateService) apply(ctx context.Context, userID uuid.UUID, u *models.HearingUpdate, in *dto.UpdateInput, partial bool) error {
	if !partial {
		switch {
		case in.Hearing == nil:
			return required("hearing")
		case in.UpdateType == nil:
			return required("update_type")
		case in.Title == nil:
			return required("title")
		case in.Description == nil:
			return required("description")
		}
	}

	if in.Hearing != nil {
		if _, err := s.hearings.Get(ctx, userID, *in.Hearing); err != nil {
			if errors.Is(err, ErrHearingNotFound) {
				return invalid("hearing", "Invalid pk %q - object does not exist.", in.Hearing.String())
			}
			return err
		}
		u.HearingID = *in.Hearing
	}
	if in.UpdateType != nil {
		t := models.UpdateType(*in.UpdateType)
		if !t.Valid() {
			return invalid("update_type", "%q is not a valid choice.", *in.UpdateType)
		}
		u.UpdateType = t
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return invalid("title", "This field may not be blank.")
		}
		if len(title) > 255 {
			return invalid("title", "Ensure this field has no more than 255 characters.")
		}
		u.Title = title
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return invalid("description", "This field may not be blank.")
		}
		u.Description = *in.Description
	}
	if in.IsImportant != nil {
		u.IsImportant = *in.IsImportant
	}
	if in.VisibleToAdvocate != nil {
		u.VisibleToAdvocate = *in.VisibleToAdvocate
	}
	if in.VisibleToClient != nil {
		u.VisibleToClient = *in.VisibleToClient
	}
	return nil
}
