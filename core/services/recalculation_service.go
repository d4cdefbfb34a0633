package services

import (
	"errors"
	"log"
	"sync"

	"ladder-api/core/cache"
	"ladder-api/core/models"
	"ladder-api/core/utils"

	"gorm.io/gorm"
)

// ErrSeasonNotFound is returned when a replay is requested for a season
// that does not exist or has been soft-deleted. It is the only
// precondition failure the engine distinguishes; storage errors are
// surfaced as-is and abort the replay.
var ErrSeasonNotFound = errors.New("season not found")

// RecalculationService rebuilds a season's complete rating snapshot
// history from its event log. Replays for the same season are
// serialized on a per-season mutex so concurrent triggers queue instead
// of racing; callers that use Schedule never block on completion.
type RecalculationService struct {
	db          *gorm.DB
	cache       *cache.LeaderboardCache
	seasonLocks sync.Map // season id -> *sync.Mutex
	pending     sync.WaitGroup
}

func NewRecalculationService(db *gorm.DB, leaderboardCache *cache.LeaderboardCache) *RecalculationService {
	return &RecalculationService{
		db:    db,
		cache: leaderboardCache,
	}
}

func (s *RecalculationService) lockSeason(seasonID uint) *sync.Mutex {
	mu, _ := s.seasonLocks.LoadOrStore(seasonID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Schedule queues an asynchronous replay of a season and returns
// immediately. Errors are logged, not surfaced: readers simply keep
// seeing the last successful replay until a retrigger succeeds.
func (s *RecalculationService) Schedule(seasonID uint, fromTimestamp *int64) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if _, err := s.RecalculateSeason(seasonID, fromTimestamp); err != nil {
			log.Printf("Scheduled recalculation of season %d failed: %v", seasonID, err)
		}
	}()
}

// ScheduleForDate resolves which season(s) cover an event timestamp and
// queues a replay for each. Seasons are non-overlapping by convention,
// so this normally schedules at most one.
func (s *RecalculationService) ScheduleForDate(dateMs int64) {
	var seasons []models.Season
	if err := s.db.Where("starts_at <= ? AND ends_at >= ?", dateMs, dateMs).Find(&seasons).Error; err != nil {
		log.Printf("Error resolving season for timestamp %d: %v", dateMs, err)
		return
	}

	for _, season := range seasons {
		s.Schedule(season.ID, &dateMs)
	}
}

// Wait blocks until every scheduled replay has finished. Used by
// shutdown and by tests; request paths never call it.
func (s *RecalculationService) Wait() {
	s.pending.Wait()
}

// RecalculateSeason deterministically rebuilds the snapshot history of
// a season from its chronological event log:
//
//  1. delete the season's existing snapshots
//  2. seed every match participant at the starting rating
//  3. fold the matches in date order, emitting a win and a loss
//     snapshot per match
//  4. walk the tournaments in date order, crediting each winner's
//     running rating with a bonus snapshot
//
// The whole rebuild runs in one transaction, so a failure leaves the
// previous history intact and a retry is always safe.
//
// fromTimestamp is accepted for contract compatibility with triggers
// that know the earliest invalidated event, but the rebuild is always
// full: the running ratings before any event depend on every earlier
// event, and a full delete-and-rewrite is what makes the operation
// idempotent and duplicate-free.
func (s *RecalculationService) RecalculateSeason(seasonID uint, fromTimestamp *int64) (*models.RecalculationResult, error) {
	mu := s.lockSeason(seasonID)
	mu.Lock()
	defer mu.Unlock()

	var season models.Season
	if err := s.db.First(&season, seasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}

	if fromTimestamp != nil {
		log.Printf("Recalculating season %d (trigger at %d)", seasonID, *fromTimestamp)
	} else {
		log.Printf("Recalculating season %d (full)", seasonID)
	}

	var result *models.RecalculationResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.replaySeason(tx, &season)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(seasonID)

	log.Printf("Season %d recalculated: %d players, %d matches", seasonID, result.PlayersProcessed, result.MatchesProcessed)
	return result, nil
}

func (s *RecalculationService) replaySeason(tx *gorm.DB, season *models.Season) (*models.RecalculationResult, error) {
	if err := tx.Where("season_id = ?", season.ID).Delete(&models.RatingSnapshot{}).Error; err != nil {
		return nil, err
	}

	matches, tournaments, err := collectSeasonEvents(tx, season)
	if err != nil {
		return nil, err
	}

	// Full participant set across the season's matches; each gets one
	// seeding snapshot at the season start.
	currentElo := make(map[uint]int)
	snapshots := make([]models.RatingSnapshot, 0, 2*len(matches)+len(tournaments))
	for _, match := range matches {
		for _, playerID := range []uint{match.WinnerID, match.LoserID} {
			if _, seeded := currentElo[playerID]; seeded {
				continue
			}
			currentElo[playerID] = utils.StartingElo
			snapshots = append(snapshots, models.RatingSnapshot{
				PlayerID:  playerID,
				SeasonID:  season.ID,
				Elo:       utils.StartingElo,
				Timestamp: season.StartsAt,
				Reason:    models.ReasonSeasonStart,
			})
		}
	}

	participants := len(currentElo)

	for i := range matches {
		match := &matches[i]
		newWinnerElo, newLoserElo, transferred := utils.CalculateMatchElo(currentElo[match.WinnerID], currentElo[match.LoserID])
		currentElo[match.WinnerID] = newWinnerElo
		currentElo[match.LoserID] = newLoserElo

		snapshots = append(snapshots,
			models.RatingSnapshot{
				PlayerID:  match.WinnerID,
				SeasonID:  season.ID,
				Elo:       newWinnerElo,
				Timestamp: match.Date,
				MatchID:   &match.ID,
				Reason:    models.ReasonMatchWin,
				Delta:     transferred + utils.WinBonus,
			},
			models.RatingSnapshot{
				PlayerID:  match.LoserID,
				SeasonID:  season.ID,
				Elo:       newLoserElo,
				Timestamp: match.Date,
				MatchID:   &match.ID,
				Reason:    models.ReasonMatchLoss,
				Delta:     -transferred,
			},
		)
	}

	// Tournament bonuses are a second pass over the post-match running
	// ratings, not interleaved with matches by timestamp.
	for i := range tournaments {
		tournament := &tournaments[i]
		winnerElo, seeded := currentElo[tournament.WinnerID]
		if !seeded {
			winnerElo = utils.StartingElo
		}
		bonus := utils.CalculateTournamentBonus(winnerElo)
		currentElo[tournament.WinnerID] = winnerElo + bonus

		snapshots = append(snapshots, models.RatingSnapshot{
			PlayerID:     tournament.WinnerID,
			SeasonID:     season.ID,
			Elo:          winnerElo + bonus,
			Timestamp:    tournament.Date,
			TournamentID: &tournament.ID,
			Reason:       models.ReasonTournamentBonus,
			Delta:        bonus,
		})
	}

	if len(snapshots) > 0 {
		if err := tx.CreateInBatches(snapshots, 500).Error; err != nil {
			return nil, err
		}
	}

	return &models.RecalculationResult{
		PlayersProcessed: participants,
		MatchesProcessed: len(matches),
	}, nil
}

// collectSeasonEvents gathers the season's chronologically relevant
// events. Soft-deleted rows are excluded by GORM's default scope; the
// secondary id ordering keeps timestamp ties deterministic (insertion
// order).
func collectSeasonEvents(tx *gorm.DB, season *models.Season) ([]models.Match, []models.Tournament, error) {
	var matches []models.Match
	if err := tx.Where("date >= ? AND date <= ?", season.StartsAt, season.EndsAt).
		Order("date ASC, id ASC").
		Find(&matches).Error; err != nil {
		return nil, nil, err
	}

	var tournaments []models.Tournament
	if err := tx.Where("date >= ? AND date <= ?", season.StartsAt, season.EndsAt).
		Order("date ASC, id ASC").
		Find(&tournaments).Error; err != nil {
		return nil, nil, err
	}

	return matches, tournaments, nil
}
