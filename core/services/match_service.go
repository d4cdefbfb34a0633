package services

import (
	"errors"

	"ladder-api/core/models"

	"gorm.io/gorm"
)

type MatchService struct {
	db     *gorm.DB
	recalc *RecalculationService
}

func NewMatchService(db *gorm.DB, recalc *RecalculationService) *MatchService {
	return &MatchService{
		db:     db,
		recalc: recalc,
	}
}

func (s *MatchService) GetRecentMatches(limit int) ([]models.Match, error) {
	var matches []models.Match

	result := s.db.Order("date DESC").
		Limit(limit).
		Preload("Winner").
		Preload("Loser").
		Preload("Tournament").
		Find(&matches)

	if result.Error != nil {
		return nil, result.Error
	}

	return matches, nil
}

func (s *MatchService) GetMatches(page, pageSize int) (*models.PaginatedMatchResponse, error) {
	var matches []models.Match
	var total int64

	if err := s.db.Model(&models.Match{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize

	if err := s.db.Order("date DESC").
		Preload("Winner").
		Preload("Loser").
		Preload("Tournament").
		Offset(offset).
		Limit(pageSize).
		Find(&matches).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedMatchResponse{
		Data:       matches,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *MatchService) GetMatchByID(id uint) (*models.Match, error) {
	var match models.Match

	result := s.db.Preload("Winner").Preload("Loser").Preload("Tournament").First(&match, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.New("match not found")
		}
		return nil, result.Error
	}

	return &match, nil
}

func (s *MatchService) CreateMatch(req models.CreateMatchRequest) (*models.Match, error) {
	if req.WinnerID == req.LoserID {
		return nil, errors.New("winner and loser must be different")
	}

	var winner, loser models.Player
	if err := s.db.First(&winner, req.WinnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("winner not found")
		}
		return nil, err
	}
	if err := s.db.First(&loser, req.LoserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("loser not found")
		}
		return nil, err
	}

	if req.TournamentID != nil {
		var tournament models.Tournament
		if err := s.db.First(&tournament, *req.TournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("tournament not found")
			}
			return nil, err
		}
	}

	match := models.Match{
		Date:         req.Date,
		WinnerID:     req.WinnerID,
		LoserID:      req.LoserID,
		TournamentID: req.TournamentID,
	}

	if err := s.db.Create(&match).Error; err != nil {
		return nil, err
	}

	s.recalc.ScheduleForDate(match.Date)

	if err := s.db.Preload("Winner").Preload("Loser").Preload("Tournament").First(&match, match.ID).Error; err != nil {
		return nil, err
	}

	return &match, nil
}

func (s *MatchService) UpdateMatch(id uint, req models.UpdateMatchRequest) (*models.Match, error) {
	var match models.Match
	if err := s.db.First(&match, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("match not found")
		}
		return nil, err
	}

	oldDate := match.Date

	updates := make(map[string]interface{})
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.WinnerID != nil {
		updates["winner_id"] = *req.WinnerID
	}
	if req.LoserID != nil {
		updates["loser_id"] = *req.LoserID
	}
	if req.TournamentID != nil {
		updates["tournament_id"] = *req.TournamentID
	}

	newWinner := match.WinnerID
	if req.WinnerID != nil {
		newWinner = *req.WinnerID
	}
	newLoser := match.LoserID
	if req.LoserID != nil {
		newLoser = *req.LoserID
	}
	if newWinner == newLoser {
		return nil, errors.New("winner and loser must be different")
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Match{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	// The old date's season must forget the match, the new date's season
	// must pick it up. Same season twice just queues two replays.
	newDate := oldDate
	if req.Date != nil {
		newDate = *req.Date
	}
	if newDate != oldDate {
		s.recalc.ScheduleForDate(oldDate)
	}
	s.recalc.ScheduleForDate(newDate)

	return s.GetMatchByID(id)
}

func (s *MatchService) DeleteMatch(id uint) error {
	var match models.Match
	if err := s.db.First(&match, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("match not found")
		}
		return err
	}

	if err := s.db.Delete(&match).Error; err != nil {
		return err
	}

	s.recalc.ScheduleForDate(match.Date)

	return nil
}
