package services

import (
	"errors"

	"ladder-api/core/models"

	"gorm.io/gorm"
)

type SeasonService struct {
	db     *gorm.DB
	recalc *RecalculationService
}

func NewSeasonService(db *gorm.DB, recalc *RecalculationService) *SeasonService {
	return &SeasonService{
		db:     db,
		recalc: recalc,
	}
}

func (s *SeasonService) GetAllSeasons() ([]models.Season, error) {
	var seasons []models.Season

	result := s.db.Order("starts_at DESC").Find(&seasons)
	if result.Error != nil {
		return nil, result.Error
	}

	return seasons, nil
}

func (s *SeasonService) GetSeasonByID(id uint) (*models.Season, error) {
	var season models.Season

	result := s.db.First(&season, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.New("season not found")
		}
		return nil, result.Error
	}

	return &season, nil
}

func (s *SeasonService) CreateSeason(req models.CreateSeasonRequest) (*models.Season, error) {
	if req.EndsAt < req.StartsAt {
		return nil, errors.New("season end must not be before season start")
	}

	season := &models.Season{
		Name:     req.Name,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}

	if err := s.db.Create(season).Error; err != nil {
		return nil, err
	}

	// A new window may capture already-recorded matches.
	s.recalc.Schedule(season.ID, nil)

	return season, nil
}

func (s *SeasonService) UpdateSeason(id uint, req models.UpdateSeasonRequest) (*models.Season, error) {
	season, err := s.GetSeasonByID(id)
	if err != nil {
		return nil, err
	}

	newStart := season.StartsAt
	if req.StartsAt != nil {
		newStart = *req.StartsAt
	}
	newEnd := season.EndsAt
	if req.EndsAt != nil {
		newEnd = *req.EndsAt
	}
	if newEnd < newStart {
		return nil, errors.New("season end must not be before season start")
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		updates["ends_at"] = *req.EndsAt
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Season{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	// Moving the window changes which events the season captures.
	if req.StartsAt != nil || req.EndsAt != nil {
		s.recalc.Schedule(season.ID, nil)
	}

	return s.GetSeasonByID(id)
}

func (s *SeasonService) DeleteSeason(id uint) error {
	result := s.db.Delete(&models.Season{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("season not found")
	}

	return nil
}
