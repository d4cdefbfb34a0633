package services

import (
	"errors"

	"ladder-api/core/models"

	"gorm.io/gorm"
)

// MergeService folds one player record into another: every match and
// tournament win of the source is reassigned to the target, the
// source's snapshots are discarded, the source is soft-deleted, and
// every season the moved events fall into is replayed. Used when the
// same person ended up with duplicate entries (typically after a
// bracket import).
type MergeService struct {
	db     *gorm.DB
	recalc *RecalculationService
}

func NewMergeService(db *gorm.DB, recalc *RecalculationService) *MergeService {
	return &MergeService{
		db:     db,
		recalc: recalc,
	}
}

func (s *MergeService) MergePlayers(sourceID, targetID uint) (*models.MergePlayersResponse, error) {
	if sourceID == targetID {
		return nil, errors.New("source and target must be different players")
	}

	var source, target models.Player
	if err := s.db.First(&source, sourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("source player not found")
		}
		return nil, err
	}
	if err := s.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("target player not found")
		}
		return nil, err
	}

	// A match between the two would become self-play after the merge.
	var headToHead int64
	if err := s.db.Model(&models.Match{}).
		Where("(winner_id = ? AND loser_id = ?) OR (winner_id = ? AND loser_id = ?)",
			sourceID, targetID, targetID, sourceID).
		Count(&headToHead).Error; err != nil {
		return nil, err
	}
	if headToHead > 0 {
		return nil, errors.New("players have matches against each other and cannot be merged")
	}

	// Event dates that will move to the target; resolved to seasons
	// after the merge commits.
	var affectedDates []int64
	if err := s.db.Model(&models.Match{}).
		Where("winner_id = ? OR loser_id = ?", sourceID, sourceID).
		Pluck("date", &affectedDates).Error; err != nil {
		return nil, err
	}
	var tournamentDates []int64
	if err := s.db.Model(&models.Tournament{}).
		Where("winner_id = ?", sourceID).
		Pluck("date", &tournamentDates).Error; err != nil {
		return nil, err
	}
	affectedDates = append(affectedDates, tournamentDates...)

	response := &models.MergePlayersResponse{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		won := tx.Model(&models.Match{}).Where("winner_id = ?", sourceID).Update("winner_id", targetID)
		if won.Error != nil {
			return won.Error
		}
		lost := tx.Model(&models.Match{}).Where("loser_id = ?", sourceID).Update("loser_id", targetID)
		if lost.Error != nil {
			return lost.Error
		}
		response.MatchesReassigned = won.RowsAffected + lost.RowsAffected

		tournaments := tx.Model(&models.Tournament{}).Where("winner_id = ?", sourceID).Update("winner_id", targetID)
		if tournaments.Error != nil {
			return tournaments.Error
		}
		response.TournamentsReassigned = tournaments.RowsAffected

		// Snapshots are regenerated, never edited: drop the source's
		// and let the replays rebuild the target's.
		if err := tx.Where("player_id = ?", sourceID).Delete(&models.RatingSnapshot{}).Error; err != nil {
			return err
		}

		return tx.Delete(&source).Error
	})
	if err != nil {
		return nil, err
	}

	response.SeasonsRecalculated = s.scheduleAffectedSeasons(affectedDates)

	return response, nil
}

func (s *MergeService) scheduleAffectedSeasons(dates []int64) []uint {
	scheduled := make(map[uint]bool)
	var seasonIDs []uint

	for _, date := range dates {
		var seasons []models.Season
		if err := s.db.Where("starts_at <= ? AND ends_at >= ?", date, date).Find(&seasons).Error; err != nil {
			continue
		}
		for _, season := range seasons {
			if scheduled[season.ID] {
				continue
			}
			scheduled[season.ID] = true
			seasonIDs = append(seasonIDs, season.ID)
			s.recalc.Schedule(season.ID, nil)
		}
	}

	return seasonIDs
}
