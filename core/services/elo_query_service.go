package services

import (
	"context"
	"errors"
	"sort"

	"ladder-api/core/cache"
	"ladder-api/core/models"
	"ladder-api/core/utils"

	"gorm.io/gorm"
)

// EloQueryService is the read path over stored snapshots. Every result
// is projected through the inactivity decay at the supplied wall-clock
// time; nothing computed here is ever written back.
type EloQueryService struct {
	db    *gorm.DB
	cache *cache.LeaderboardCache
}

func NewEloQueryService(db *gorm.DB, leaderboardCache *cache.LeaderboardCache) *EloQueryService {
	return &EloQueryService{
		db:    db,
		cache: leaderboardCache,
	}
}

// GetPlayerCurrentElo projects a player's effective rating in a season
// at nowMs. Returns (nil, nil) when the season is missing/deleted or
// the player has no snapshots in it: no rating, as distinct from a
// rating of zero.
func (s *EloQueryService) GetPlayerCurrentElo(playerID, seasonID uint, nowMs int64) (*models.CurrentEloResponse, error) {
	var season models.Season
	if err := s.db.First(&season, seasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var latest models.RatingSnapshot
	err := s.db.Where("player_id = ? AND season_id = ?", playerID, seasonID).
		Order("timestamp DESC, id DESC").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	penalty := utils.CalculateInactivityPenalty(latest.Elo, latest.Timestamp, nowMs, season.EndsAt)

	return &models.CurrentEloResponse{
		BaseElo:               latest.Elo,
		InactivityPenalty:     penalty,
		CurrentElo:            latest.Elo - penalty,
		LastActivityTimestamp: latest.Timestamp,
		IsInactive:            penalty > 0,
	}, nil
}

// GetSeasonLeaderboard projects every participant's latest snapshot
// through decay and orders by effective rating. Players with no
// snapshots in the season are absent, not listed at zero.
func (s *EloQueryService) GetSeasonLeaderboard(seasonID uint, nowMs int64, limit int) ([]models.LeaderboardEntry, error) {
	var season models.Season
	if err := s.db.First(&season, seasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.LeaderboardEntry{}, nil
		}
		return nil, err
	}

	if cached := s.cache.Get(context.Background(), seasonID); cached != nil {
		return truncateLeaderboard(cached, limit), nil
	}

	var snapshots []models.RatingSnapshot
	if err := s.db.Where("season_id = ?", seasonID).
		Order("timestamp ASC, id ASC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}

	// Last snapshot per player wins; the scan order above makes "last"
	// the latest timestamp with id as tiebreak.
	latestByPlayer := make(map[uint]models.RatingSnapshot)
	for _, snapshot := range snapshots {
		latestByPlayer[snapshot.PlayerID] = snapshot
	}

	playerIDs := make([]uint, 0, len(latestByPlayer))
	for playerID := range latestByPlayer {
		playerIDs = append(playerIDs, playerID)
	}

	var players []models.Player
	if len(playerIDs) > 0 {
		if err := s.db.Where("id IN ?", playerIDs).Find(&players).Error; err != nil {
			return nil, err
		}
	}
	playerByID := make(map[uint]models.Player, len(players))
	for _, player := range players {
		playerByID[player.ID] = player
	}

	leaderboard := make([]models.LeaderboardEntry, 0, len(latestByPlayer))
	for playerID, snapshot := range latestByPlayer {
		player, ok := playerByID[playerID]
		if !ok {
			// Soft-deleted players keep their snapshots but drop off
			// the board.
			continue
		}

		penalty := utils.CalculateInactivityPenalty(snapshot.Elo, snapshot.Timestamp, nowMs, season.EndsAt)
		leaderboard = append(leaderboard, models.LeaderboardEntry{
			PlayerID:              playerID,
			PlayerName:            player.Name,
			PlayerImage:           player.Image,
			BaseElo:               snapshot.Elo,
			InactivityPenalty:     penalty,
			CurrentElo:            snapshot.Elo - penalty,
			LastActivityTimestamp: snapshot.Timestamp,
		})
	}

	sort.Slice(leaderboard, func(i, j int) bool {
		if leaderboard[i].CurrentElo != leaderboard[j].CurrentElo {
			return leaderboard[i].CurrentElo > leaderboard[j].CurrentElo
		}
		if leaderboard[i].BaseElo != leaderboard[j].BaseElo {
			return leaderboard[i].BaseElo > leaderboard[j].BaseElo
		}
		return leaderboard[i].PlayerID < leaderboard[j].PlayerID
	})

	s.cache.Set(context.Background(), seasonID, leaderboard)

	return truncateLeaderboard(leaderboard, limit), nil
}

func truncateLeaderboard(entries []models.LeaderboardEntry, limit int) []models.LeaderboardEntry {
	if limit > 0 && limit < len(entries) {
		return entries[:limit]
	}
	return entries
}

// GetPlayerEloHistory returns the full ordered snapshot sequence for a
// player in a season.
func (s *EloQueryService) GetPlayerEloHistory(playerID, seasonID uint) ([]models.EloHistoryItem, error) {
	var snapshots []models.RatingSnapshot
	if err := s.db.Where("player_id = ? AND season_id = ?", playerID, seasonID).
		Order("timestamp ASC, id ASC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}

	history := make([]models.EloHistoryItem, len(snapshots))
	for i, snapshot := range snapshots {
		history[i] = models.EloHistoryItem{
			Elo:          snapshot.Elo,
			Timestamp:    snapshot.Timestamp,
			MatchID:      snapshot.MatchID,
			TournamentID: snapshot.TournamentID,
			Reason:       snapshot.Reason,
			Delta:        snapshot.Delta,
		}
	}

	return history, nil
}

// GetPlayerSeasonStats aggregates a player's record for one season:
// win/loss counts over the season's matches plus the decayed current
// rating and the season-high rating.
func (s *EloQueryService) GetPlayerSeasonStats(playerID, seasonID uint, nowMs int64) (*models.PlayerSeasonStats, error) {
	var season models.Season
	if err := s.db.First(&season, seasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var wins, losses int64
	if err := s.db.Model(&models.Match{}).
		Where("winner_id = ? AND date >= ? AND date <= ?", playerID, season.StartsAt, season.EndsAt).
		Count(&wins).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Match{}).
		Where("loser_id = ? AND date >= ? AND date <= ?", playerID, season.StartsAt, season.EndsAt).
		Count(&losses).Error; err != nil {
		return nil, err
	}

	stats := &models.PlayerSeasonStats{
		Wins:         int(wins),
		Losses:       int(losses),
		TotalMatches: int(wins + losses),
	}
	if stats.TotalMatches > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalMatches)
	}

	var snapshots []models.RatingSnapshot
	if err := s.db.Where("player_id = ? AND season_id = ?", playerID, seasonID).
		Order("timestamp ASC, id ASC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}

	if len(snapshots) > 0 {
		for _, snapshot := range snapshots {
			if snapshot.Elo > stats.HighestElo {
				stats.HighestElo = snapshot.Elo
			}
		}
		latest := snapshots[len(snapshots)-1]
		penalty := utils.CalculateInactivityPenalty(latest.Elo, latest.Timestamp, nowMs, season.EndsAt)
		stats.CurrentElo = latest.Elo - penalty
	}

	return stats, nil
}
