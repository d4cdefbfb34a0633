package services

import (
	"time"

	"ladder-api/core/models"

	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		db: db,
	}
}

func (s *StatsService) GetStats() (*models.Stats, error) {
	var stats models.Stats

	if err := s.db.Model(&models.Player{}).Count(&stats.TotalPlayers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Match{}).Count(&stats.TotalMatches).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Tournament{}).Count(&stats.TotalTournaments).Error; err != nil {
		return nil, err
	}

	// Activity windows run on the match date, which is what places a
	// match in time, not on row creation.
	nowMs := time.Now().UnixMilli()
	last7Start := nowMs - 7*24*int64(time.Hour/time.Millisecond)
	previous7Start := nowMs - 14*24*int64(time.Hour/time.Millisecond)

	if err := s.db.Model(&models.Match{}).
		Where("date >= ?", last7Start).
		Count(&stats.MatchesLast7Days).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Match{}).
		Where("date >= ? AND date < ?", previous7Start, last7Start).
		Count(&stats.MatchesPrevious7Days).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
