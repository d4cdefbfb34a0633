package fixtures

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	authUtils "ladder-api/auth/utils"
	"ladder-api/core/models"
	"ladder-api/core/services"

	"gorm.io/gorm"
)

type Fixtures struct {
	db *gorm.DB
}

func NewFixtures(db *gorm.DB) *Fixtures {
	return &Fixtures{db: db}
}

// GenerateTestData creates a season, a roster of players, a batch of
// matches and a tournament, then replays the season so snapshots are
// consistent with the generated events.
func (f *Fixtures) GenerateTestData() error {
	log.Println("Starting fixtures generation...")

	players, err := f.generatePlayers()
	if err != nil {
		return fmt.Errorf("failed to generate players: %w", err)
	}

	season, err := f.generateSeason()
	if err != nil {
		return fmt.Errorf("failed to generate season: %w", err)
	}

	matchCount, err := f.generateMatches(players, season)
	if err != nil {
		return fmt.Errorf("failed to generate matches: %w", err)
	}

	if err := f.generateTournament(players, season); err != nil {
		return fmt.Errorf("failed to generate tournament: %w", err)
	}

	recalc := services.NewRecalculationService(f.db, nil)
	result, err := recalc.RecalculateSeason(season.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to replay season: %w", err)
	}

	log.Println("Fixtures generated successfully!")
	log.Printf("Created %d players, %d matches, 1 tournament; replay covered %d players and %d matches",
		len(players), matchCount, result.PlayersProcessed, result.MatchesProcessed)
	return nil
}

func (f *Fixtures) generatePlayers() ([]models.Player, error) {
	names := []string{
		"Alexandre", "Marie", "Julien", "Sophie", "Thomas",
		"Camille", "Nicolas", "Laura", "Antoine", "Emma",
	}

	var players []models.Player

	for i, name := range names {
		player := models.Player{
			Name: name,
			Role: models.RolePlayer,
		}

		// First two get accounts: one judge, one plain player.
		if i < 2 {
			hashed, err := authUtils.HashPassword("password123")
			if err != nil {
				return nil, err
			}
			email := fmt.Sprintf("%s@ladder.local", name)
			player.Email = &email
			player.PasswordHash = &hashed
			if i == 0 {
				player.Role = models.RoleJudge
			}
		}

		if err := f.db.Create(&player).Error; err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	return players, nil
}

func (f *Fixtures) generateSeason() (*models.Season, error) {
	now := time.Now()
	season := &models.Season{
		Name:     "Fixture Season",
		StartsAt: now.AddDate(0, -3, 0).UnixMilli(),
		EndsAt:   now.AddDate(0, 3, 0).UnixMilli(),
	}

	if err := f.db.Create(season).Error; err != nil {
		return nil, err
	}
	return season, nil
}

func (f *Fixtures) generateMatches(players []models.Player, season *models.Season) (int, error) {
	const matchCount = 50

	window := season.EndsAt - season.StartsAt
	nowMs := time.Now().UnixMilli()

	for i := 0; i < matchCount; i++ {
		a := rand.Intn(len(players))
		b := rand.Intn(len(players) - 1)
		if b >= a {
			b++
		}

		date := season.StartsAt + rand.Int63n(window)
		if date > nowMs {
			date = nowMs - rand.Int63n(24*int64(time.Hour/time.Millisecond))
		}

		match := models.Match{
			Date:     date,
			WinnerID: players[a].ID,
			LoserID:  players[b].ID,
		}
		if err := f.db.Create(&match).Error; err != nil {
			return i, err
		}
	}

	return matchCount, nil
}

func (f *Fixtures) generateTournament(players []models.Player, season *models.Season) error {
	winner := players[rand.Intn(len(players))]

	tournament := models.Tournament{
		Name:     "Fixture Open",
		Date:     time.Now().AddDate(0, -1, 0).UnixMilli(),
		WinnerID: winner.ID,
	}
	if err := f.db.Create(&tournament).Error; err != nil {
		return err
	}

	// A small bracket: three matches attached to the tournament.
	for i := 0; i < 3 && i+1 < len(players); i++ {
		loser := players[(rand.Intn(len(players)))]
		if loser.ID == winner.ID {
			continue
		}
		match := models.Match{
			Date:         tournament.Date,
			WinnerID:     winner.ID,
			LoserID:      loser.ID,
			TournamentID: &tournament.ID,
		}
		if err := f.db.Create(&match).Error; err != nil {
			return err
		}
	}

	return nil
}

// ClearAllData removes every fixture-generated row. Snapshots go first
// since they reference everything else.
func (f *Fixtures) ClearAllData() error {
	log.Println("Clearing all data...")

	tables := []string{"rating_snapshots", "matches", "tournaments", "seasons", "players"}
	for _, table := range tables {
		if err := f.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	log.Println("All data cleared")
	return nil
}
