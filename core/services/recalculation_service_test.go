package services

import (
	"testing"

	"ladder-api/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func snapshotsFor(t *testing.T, db *gorm.DB, seasonID uint) []models.RatingSnapshot {
	t.Helper()
	var snapshots []models.RatingSnapshot
	require.NoError(t, db.Where("season_id = ?", seasonID).
		Order("timestamp ASC, id ASC").
		Find(&snapshots).Error)
	return snapshots
}

func TestRecalculateSeasonUnknownSeason(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)

	_, err := recalc.RecalculateSeason(999, nil)
	assert.ErrorIs(t, err, ErrSeasonNotFound)
}

func TestRecalculateSeasonSingleMatch(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)
	match := createMatch(t, db, alice.ID, bob.ID, 1*dayMs)

	result, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PlayersProcessed)
	assert.Equal(t, 1, result.MatchesProcessed)

	snapshots := snapshotsFor(t, db, season.ID)
	require.Len(t, snapshots, 4)

	// Two seeds at the season start, then the win/loss pair.
	assert.Equal(t, models.ReasonSeasonStart, snapshots[0].Reason)
	assert.Equal(t, models.ReasonSeasonStart, snapshots[1].Reason)
	assert.Equal(t, int64(0), snapshots[0].Timestamp)
	assert.Equal(t, 100, snapshots[0].Elo)

	win := snapshots[2]
	loss := snapshots[3]
	assert.Equal(t, alice.ID, win.PlayerID)
	assert.Equal(t, models.ReasonMatchWin, win.Reason)
	assert.Equal(t, 110, win.Elo)
	assert.Equal(t, 10, win.Delta)
	require.NotNil(t, win.MatchID)
	assert.Equal(t, match.ID, *win.MatchID)

	assert.Equal(t, bob.ID, loss.PlayerID)
	assert.Equal(t, models.ReasonMatchLoss, loss.Reason)
	assert.Equal(t, 92, loss.Elo)
	assert.Equal(t, -8, loss.Delta)
}

func TestRecalculateSeasonFoldsMatchesChronologically(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	carol := createPlayer(t, db, "Carol")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)

	// Inserted out of chronological order on purpose; the replay must
	// order by date, not insertion.
	createMatch(t, db, alice.ID, carol.ID, 3*dayMs)
	createMatch(t, db, alice.ID, bob.ID, 1*dayMs)
	createMatch(t, db, bob.ID, carol.ID, 2*dayMs)

	result, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.PlayersProcessed)
	assert.Equal(t, 3, result.MatchesProcessed)

	// day1: Alice 110, Bob 92
	// day2: Bob 102, Carol 92
	// day3: Alice 119, Carol 85
	var latest models.RatingSnapshot
	require.NoError(t, db.Where("season_id = ? AND player_id = ?", season.ID, alice.ID).
		Order("timestamp DESC, id DESC").First(&latest).Error)
	assert.Equal(t, 119, latest.Elo)

	latest = models.RatingSnapshot{}
	require.NoError(t, db.Where("season_id = ? AND player_id = ?", season.ID, bob.ID).
		Order("timestamp DESC, id DESC").First(&latest).Error)
	assert.Equal(t, 102, latest.Elo)

	latest = models.RatingSnapshot{}
	require.NoError(t, db.Where("season_id = ? AND player_id = ?", season.ID, carol.ID).
		Order("timestamp DESC, id DESC").First(&latest).Error)
	assert.Equal(t, 85, latest.Elo)
}

func TestRecalculateSeasonTournamentBonusAfterMatches(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)

	// The tournament predates the match, but the bonus still applies to
	// the post-match rating: tournaments are a second pass.
	createTournament(t, db, "Open", alice.ID, 1*dayMs)
	createMatch(t, db, alice.ID, bob.ID, 5*dayMs)

	_, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)

	var bonus models.RatingSnapshot
	require.NoError(t, db.Where("season_id = ? AND reason = ?", season.ID, models.ReasonTournamentBonus).
		First(&bonus).Error)
	assert.Equal(t, alice.ID, bonus.PlayerID)
	// Post-match Alice is 110; bonus floor(110*0.08) = 8.
	assert.Equal(t, 8, bonus.Delta)
	assert.Equal(t, 118, bonus.Elo)
	require.NotNil(t, bonus.TournamentID)
}

func TestRecalculateSeasonTournamentOnlyWinner(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	dave := createPlayer(t, db, "Dave")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)

	createMatch(t, db, alice.ID, bob.ID, 1*dayMs)
	createTournament(t, db, "Open", dave.ID, 2*dayMs)

	result, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)

	// Dave played no matches: not counted as a participant and not
	// seeded, but the bonus applies from the starting rating.
	assert.Equal(t, 2, result.PlayersProcessed)

	var daveSnapshots []models.RatingSnapshot
	require.NoError(t, db.Where("season_id = ? AND player_id = ?", season.ID, dave.ID).
		Find(&daveSnapshots).Error)
	require.Len(t, daveSnapshots, 1)
	assert.Equal(t, models.ReasonTournamentBonus, daveSnapshots[0].Reason)
	assert.Equal(t, 108, daveSnapshots[0].Elo)
	assert.Equal(t, 8, daveSnapshots[0].Delta)
}

func TestRecalculateSeasonIgnoresEventsOutsideWindow(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	season := createSeason(t, db, "S1", 10*dayMs, 20*dayMs)

	createMatch(t, db, alice.ID, bob.ID, 5*dayMs)  // before
	createMatch(t, db, alice.ID, bob.ID, 15*dayMs) // inside
	createMatch(t, db, alice.ID, bob.ID, 25*dayMs) // after

	result, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MatchesProcessed)

	snapshots := snapshotsFor(t, db, season.ID)
	assert.Len(t, snapshots, 4) // 2 seeds + 1 win + 1 loss
}

func TestRecalculateSeasonSkipsSoftDeletedMatches(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)

	keep := createMatch(t, db, alice.ID, bob.ID, 1*dayMs)
	drop := createMatch(t, db, bob.ID, alice.ID, 2*dayMs)
	require.NoError(t, db.Delete(&drop).Error)

	result, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MatchesProcessed)

	var matchIDs []uint
	require.NoError(t, db.Model(&models.RatingSnapshot{}).
		Where("season_id = ? AND match_id IS NOT NULL", season.ID).
		Distinct().
		Pluck("match_id", &matchIDs).Error)
	assert.Equal(t, []uint{keep.ID}, matchIDs)
}

func TestRecalculateSeasonIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	carol := createPlayer(t, db, "Carol")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)

	createMatch(t, db, alice.ID, bob.ID, 1*dayMs)
	createMatch(t, db, bob.ID, carol.ID, 2*dayMs)
	createTournament(t, db, "Open", carol.ID, 3*dayMs)

	_, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)
	first := snapshotsFor(t, db, season.ID)

	// A trigger timestamp must not change the outcome: the replay is
	// always full.
	from := 2 * dayMs
	_, err = recalc.RecalculateSeason(season.ID, &from)
	require.NoError(t, err)
	second := snapshotsFor(t, db, season.ID)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].PlayerID, second[i].PlayerID, "index %d", i)
		assert.Equal(t, first[i].Elo, second[i].Elo, "index %d", i)
		assert.Equal(t, first[i].Timestamp, second[i].Timestamp, "index %d", i)
		assert.Equal(t, first[i].Reason, second[i].Reason, "index %d", i)
		assert.Equal(t, first[i].Delta, second[i].Delta, "index %d", i)
	}
}

func TestScheduleRunsAsynchronously(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)
	createMatch(t, db, alice.ID, bob.ID, 1*dayMs)

	recalc.Schedule(season.ID, nil)
	recalc.Wait()

	snapshots := snapshotsFor(t, db, season.ID)
	assert.Len(t, snapshots, 4)
}

func TestScheduleForDateResolvesCoveringSeason(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	covering := createSeason(t, db, "S1", 0, 10*dayMs)
	other := createSeason(t, db, "S2", 20*dayMs, 30*dayMs)
	createMatch(t, db, alice.ID, bob.ID, 5*dayMs)

	recalc.ScheduleForDate(5 * dayMs)
	recalc.Wait()

	assert.NotEmpty(t, snapshotsFor(t, db, covering.ID))
	assert.Empty(t, snapshotsFor(t, db, other.ID))
}
