package services

import (
	"testing"

	"ladder-api/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlayerCurrentEloNoRating(t *testing.T) {
	db := setupTestDB(t)
	queries := NewEloQueryService(db, nil)

	alice := createPlayer(t, db, "Alice")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)

	// Unknown season.
	elo, err := queries.GetPlayerCurrentElo(alice.ID, 999, nowMs())
	require.NoError(t, err)
	assert.Nil(t, elo)

	// Known season, no snapshots: no rating, not a zero rating.
	elo, err = queries.GetPlayerCurrentElo(alice.ID, season.ID, nowMs())
	require.NoError(t, err)
	assert.Nil(t, elo)
}

func TestGetPlayerCurrentEloAppliesDecay(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	queries := NewEloQueryService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)
	createMatch(t, db, alice.ID, bob.ID, 1*dayMs)

	_, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)

	// Fresh activity: no penalty.
	elo, err := queries.GetPlayerCurrentElo(alice.ID, season.ID, 10*dayMs)
	require.NoError(t, err)
	require.NotNil(t, elo)
	assert.Equal(t, 110, elo.BaseElo)
	assert.Equal(t, 0, elo.InactivityPenalty)
	assert.Equal(t, 110, elo.CurrentElo)
	assert.False(t, elo.IsInactive)

	// 61 idle days: one decay period. 110 * 0.92 = 101.2, penalty 8.
	elo, err = queries.GetPlayerCurrentElo(alice.ID, season.ID, 62*dayMs)
	require.NoError(t, err)
	require.NotNil(t, elo)
	assert.Equal(t, 110, elo.BaseElo)
	assert.Equal(t, 8, elo.InactivityPenalty)
	assert.Equal(t, 102, elo.CurrentElo)
	assert.True(t, elo.IsInactive)
	assert.Equal(t, 1*dayMs, elo.LastActivityTimestamp)
}

func TestGetSeasonLeaderboardOrdering(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	queries := NewEloQueryService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	carol := createPlayer(t, db, "Carol")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)

	createMatch(t, db, alice.ID, bob.ID, 1*dayMs)
	createMatch(t, db, alice.ID, carol.ID, 2*dayMs)

	_, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)

	leaderboard, err := queries.GetSeasonLeaderboard(season.ID, 3*dayMs, 0)
	require.NoError(t, err)
	require.Len(t, leaderboard, 3)

	// Alice 120 (110 then +8+2), Bob 92, Carol 92; tie broken by id.
	assert.Equal(t, alice.ID, leaderboard[0].PlayerID)
	assert.Equal(t, 120, leaderboard[0].CurrentElo)
	assert.Equal(t, bob.ID, leaderboard[1].PlayerID)
	assert.Equal(t, carol.ID, leaderboard[2].PlayerID)

	// Limit truncates after ordering.
	top1, err := queries.GetSeasonLeaderboard(season.ID, 3*dayMs, 1)
	require.NoError(t, err)
	require.Len(t, top1, 1)
	assert.Equal(t, alice.ID, top1[0].PlayerID)
}

func TestGetSeasonLeaderboardSkipsSoftDeletedPlayers(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	queries := NewEloQueryService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)
	createMatch(t, db, alice.ID, bob.ID, 1*dayMs)

	_, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&bob).Error)

	leaderboard, err := queries.GetSeasonLeaderboard(season.ID, 2*dayMs, 0)
	require.NoError(t, err)
	require.Len(t, leaderboard, 1)
	assert.Equal(t, alice.ID, leaderboard[0].PlayerID)
}

func TestGetSeasonLeaderboardUnknownSeasonIsEmpty(t *testing.T) {
	db := setupTestDB(t)
	queries := NewEloQueryService(db, nil)

	leaderboard, err := queries.GetSeasonLeaderboard(42, nowMs(), 0)
	require.NoError(t, err)
	assert.Empty(t, leaderboard)
}

func TestGetPlayerEloHistory(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	queries := NewEloQueryService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)
	createMatch(t, db, alice.ID, bob.ID, 1*dayMs)
	createMatch(t, db, bob.ID, alice.ID, 2*dayMs)
	createTournament(t, db, "Open", alice.ID, 3*dayMs)

	_, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)

	history, err := queries.GetPlayerEloHistory(alice.ID, season.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)

	assert.Equal(t, models.ReasonSeasonStart, history[0].Reason)
	assert.Equal(t, models.ReasonMatchWin, history[1].Reason)
	assert.Equal(t, models.ReasonMatchLoss, history[2].Reason)
	assert.Equal(t, models.ReasonTournamentBonus, history[3].Reason)

	// Elo of each entry equals the previous elo plus the delta.
	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].Elo+history[i].Delta, history[i].Elo, "index %d", i)
	}
}

func TestGetPlayerSeasonStats(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	queries := NewEloQueryService(db, nil)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	season := createSeason(t, db, "S1", 0, 1000*dayMs)
	createMatch(t, db, alice.ID, bob.ID, 1*dayMs)
	createMatch(t, db, alice.ID, bob.ID, 2*dayMs)
	createMatch(t, db, bob.ID, alice.ID, 3*dayMs)

	_, err := recalc.RecalculateSeason(season.ID, nil)
	require.NoError(t, err)

	stats, err := queries.GetPlayerSeasonStats(alice.ID, season.ID, 4*dayMs)
	require.NoError(t, err)
	require.NotNil(t, stats)

	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 3, stats.TotalMatches)
	assert.InDelta(t, 2.0/3.0, stats.WinRate, 1e-9)
	// Alice: 100 -> 110 -> 119 -> 110 (gives up floor(119*0.08) = 9).
	assert.Equal(t, 119, stats.HighestElo)
	assert.Equal(t, 110, stats.CurrentElo)

	// Unknown season yields nil, not zeroes.
	stats, err = queries.GetPlayerSeasonStats(alice.ID, 999, nowMs())
	require.NoError(t, err)
	assert.Nil(t, stats)
}
