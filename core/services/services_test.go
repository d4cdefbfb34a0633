package services

import (
	"testing"
	"time"

	"ladder-api/core/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const dayMs = int64(24 * 60 * 60 * 1000)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Player{},
		&models.Season{},
		&models.Tournament{},
		&models.Match{},
		&models.RatingSnapshot{},
	))

	return db
}

func createPlayer(t *testing.T, db *gorm.DB, name string) models.Player {
	t.Helper()
	player := models.Player{Name: name, Role: models.RolePlayer}
	require.NoError(t, db.Create(&player).Error)
	return player
}

func createSeason(t *testing.T, db *gorm.DB, name string, startsAt, endsAt int64) models.Season {
	t.Helper()
	season := models.Season{Name: name, StartsAt: startsAt, EndsAt: endsAt}
	require.NoError(t, db.Create(&season).Error)
	return season
}

func createMatch(t *testing.T, db *gorm.DB, winnerID, loserID uint, date int64) models.Match {
	t.Helper()
	match := models.Match{Date: date, WinnerID: winnerID, LoserID: loserID}
	require.NoError(t, db.Create(&match).Error)
	return match
}

func createTournament(t *testing.T, db *gorm.DB, name string, winnerID uint, date int64) models.Tournament {
	t.Helper()
	tournament := models.Tournament{Name: name, Date: date, WinnerID: winnerID}
	require.NoError(t, db.Create(&tournament).Error)
	return tournament
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}
