package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/access"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type statusCount struct {
	Status models.HearingStatus
	Total  int64
}

// Stats counts hearings visible to the caller by status, and the updates on
// those hearings.
func (s *StatsService) Stats(ctx context.Context, userID uuid.UUID) (*dto.StatsResponse, error) {
	db := s.db.WithContext(ctx)

	var counts []statusCount
	err := db.Model(&models.Hearing{}).
		Scopes(access.VisibleHearings(userID)).
		Select("hearings.status AS status, COUNT(*) AS total").
		Group("hearings.status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count hearings: %w", err)
	}

	stats := &dto.StatsResponse{}
	for _, c := range counts {
		stats.TotalHearings += c.Total
		switch c.Status {
		case models.StatusScheduled:
			stats.Scheduled = c.Total
		case models.StatusCompleted:
			stats.Completed = c.Total
		case models.StatusPostponed:
			stats.Postponed = c.Total
		case models.StatusCancelled:
			stats.Cancelled = c.Total
		}
	}

	if err := db.Model(&models.HearingUpdate{}).
		Scopes(access.VisibleUpdates(userID)).
		Count(&stats.TotalUpdates).Error; err != nil {
		return nil, fmt.Errorf("failed to count updates: %w", err)
	}
	if err := db.Model(&models.HearingUpdate{}).
		Scopes(access.VisibleUpdates(userID)).
		Where("hearing_updates.is_important = ?", true).
		Count(&stats.ImportantUpdates).Error; err != nil {
		return nil, fmt.Errorf("failed to count important updates: %w", err)
	}

	return stats, nil
}
