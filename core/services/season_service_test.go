package services

import (
	"testing"

	"ladder-api/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSeasonRejectsInvertedWindow(t *testing.T) {
	db := setupTestDB(t)
	seasons := NewSeasonService(db, NewRecalculationService(db, nil))

	_, err := seasons.CreateSeason(models.CreateSeasonRequest{
		Name: "Backwards", StartsAt: 10 * dayMs, EndsAt: 5 * dayMs,
	})
	assert.EqualError(t, err, "season end must not be before season start")
}

func TestCreateSeasonCapturesExistingMatches(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	seasons := NewSeasonService(db, recalc)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	createMatch(t, db, alice.ID, bob.ID, 5*dayMs)

	season, err := seasons.CreateSeason(models.CreateSeasonRequest{
		Name: "S1", StartsAt: 0, EndsAt: 10 * dayMs,
	})
	require.NoError(t, err)
	recalc.Wait()

	var count int64
	require.NoError(t, db.Model(&models.RatingSnapshot{}).
		Where("season_id = ?", season.ID).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestUpdateSeasonWindowChangeReplays(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	seasons := NewSeasonService(db, recalc)

	alice := createPlayer(t, db, "Alice")
	bob := createPlayer(t, db, "Bob")
	createMatch(t, db, alice.ID, bob.ID, 15*dayMs)

	season, err := seasons.CreateSeason(models.CreateSeasonRequest{
		Name: "S1", StartsAt: 0, EndsAt: 10 * dayMs,
	})
	require.NoError(t, err)
	recalc.Wait()

	// Match sits outside the window: empty history.
	var count int64
	require.NoError(t, db.Model(&models.RatingSnapshot{}).
		Where("season_id = ?", season.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Extending the window pulls the match in.
	newEnd := 20 * dayMs
	_, err = seasons.UpdateSeason(season.ID, models.UpdateSeasonRequest{EndsAt: &newEnd})
	require.NoError(t, err)
	recalc.Wait()

	require.NoError(t, db.Model(&models.RatingSnapshot{}).
		Where("season_id = ?", season.ID).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestUpdateSeasonNameOnlyDoesNotReplay(t *testing.T) {
	db := setupTestDB(t)
	recalc := NewRecalculationService(db, nil)
	seasons := NewSeasonService(db, recalc)

	season, err := seasons.CreateSeason(models.CreateSeasonRequest{
		Name: "S1", StartsAt: 0, EndsAt: 10 * dayMs,
	})
	require.NoError(t, err)
	recalc.Wait()

	name := "Renamed"
	updated, err := seasons.UpdateSeason(season.ID, models.UpdateSeasonRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, season.StartsAt, updated.StartsAt)
}

func TestDeleteSeason(t *testing.T) {
	db := setupTestDB(t)
	seasons := NewSeasonService(db, NewRecalculationService(db, nil))

	season, err := seasons.CreateSeason(models.CreateSeasonRequest{
		Name: "S1", StartsAt: 0, EndsAt: 10 * dayMs,
	})
	require.NoError(t, err)

	require.NoError(t, seasons.DeleteSeason(season.ID))
	assert.EqualError(t, seasons.DeleteSeason(season.ID), "season not found")

	_, err = seasons.GetSeasonByID(season.ID)
	assert.EqualError(t, err, "season not found")
}
