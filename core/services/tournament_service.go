package services

import (
	"errors"

	"ladder-api/core/models"

	"gorm.io/gorm"
)

type TournamentService struct {
	db     *gorm.DB
	recalc *RecalculationService
}

func NewTournamentService(db *gorm.DB, recalc *RecalculationService) *TournamentService {
	return &TournamentService{
		db:     db,
		recalc: recalc,
	}
}

func (s *TournamentService) GetAllTournaments() ([]models.Tournament, error) {
	var tournaments []models.Tournament

	result := s.db.Order("date DESC").Preload("Winner").Find(&tournaments)
	if result.Error != nil {
		return nil, result.Error
	}

	return tournaments, nil
}

func (s *TournamentService) GetTournamentByID(id uint) (*models.Tournament, error) {
	var tournament models.Tournament

	result := s.db.Preload("Winner").First(&tournament, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.New("tournament not found")
		}
		return nil, result.Error
	}

	return &tournament, nil
}

func (s *TournamentService) GetTournamentMatches(id uint) ([]models.Match, error) {
	if _, err := s.GetTournamentByID(id); err != nil {
		return nil, err
	}

	var matches []models.Match
	if err := s.db.Where("tournament_id = ?", id).
		Order("date ASC, id ASC").
		Preload("Winner").
		Preload("Loser").
		Find(&matches).Error; err != nil {
		return nil, err
	}

	return matches, nil
}

func (s *TournamentService) CreateTournament(req models.CreateTournamentRequest) (*models.Tournament, error) {
	var winner models.Player
	if err := s.db.First(&winner, req.WinnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("winner not found")
		}
		return nil, err
	}

	tournament := &models.Tournament{
		Name:     req.Name,
		Date:     req.Date,
		WinnerID: req.WinnerID,
	}

	if err := s.db.Create(tournament).Error; err != nil {
		return nil, err
	}

	s.recalc.ScheduleForDate(tournament.Date)

	return s.GetTournamentByID(tournament.ID)
}

func (s *TournamentService) UpdateTournament(id uint, req models.UpdateTournamentRequest) (*models.Tournament, error) {
	var tournament models.Tournament
	if err := s.db.First(&tournament, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("tournament not found")
		}
		return nil, err
	}

	oldDate := tournament.Date

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.WinnerID != nil {
		var winner models.Player
		if err := s.db.First(&winner, *req.WinnerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("winner not found")
			}
			return nil, err
		}
		updates["winner_id"] = *req.WinnerID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Tournament{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	newDate := oldDate
	if req.Date != nil {
		newDate = *req.Date
	}
	if newDate != oldDate {
		s.recalc.ScheduleForDate(oldDate)
	}
	s.recalc.ScheduleForDate(newDate)

	return s.GetTournamentByID(id)
}

func (s *TournamentService) DeleteTournament(id uint) error {
	var tournament models.Tournament
	if err := s.db.First(&tournament, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("tournament not found")
		}
		return err
	}

	if err := s.db.Delete(&tournament).Error; err != nil {
		return err
	}

	s.recalc.ScheduleForDate(tournament.Date)

	return nil
}
