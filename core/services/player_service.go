package services

import (
	"errors"

	"ladder-api/core/models"

	"gorm.io/gorm"
)

type PlayerService struct {
	db *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{
		db: db,
	}
}

func (s *PlayerService) GetPlayerByID(id uint) (*models.Player, error) {
	var player models.Player

	result := s.db.First(&player, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.New("player not found")
		}
		return nil, result.Error
	}

	return &player, nil
}

func (s *PlayerService) GetAllPlayers() ([]models.PlayerListItem, error) {
	var players []models.Player

	if err := s.db.Order("created_at DESC").Find(&players).Error; err != nil {
		return nil, err
	}

	items := make([]models.PlayerListItem, len(players))
	for i, player := range players {
		items[i] = models.PlayerListItem{
			ID:         player.ID,
			Name:       player.Name,
			Role:       player.Role,
			Image:      player.Image,
			HasAccount: player.HasAccount(),
			CreatedAt:  player.CreatedAt,
		}
	}

	return items, nil
}

func (s *PlayerService) CreatePlayer(req models.CreatePlayerRequest) (*models.Player, error) {
	player := &models.Player{
		Name: req.Name,
		Role: req.Role,
	}

	if err := s.db.Create(player).Error; err != nil {
		return nil, err
	}

	return player, nil
}

func (s *PlayerService) UpdatePlayer(id uint, req models.UpdatePlayerRequest) (*models.Player, error) {
	if _, err := s.GetPlayerByID(id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Player{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetPlayerByID(id)
}

// GetPlayerMatches lists a player's matches newest first, with the
// opponent resolved relative to the player.
func (s *PlayerService) GetPlayerMatches(playerID uint) ([]models.PlayerMatchItem, error) {
	if _, err := s.GetPlayerByID(playerID); err != nil {
		return nil, err
	}

	var matches []models.Match
	if err := s.db.Where("winner_id = ? OR loser_id = ?", playerID, playerID).
		Order("date DESC, id DESC").
		Preload("Winner").
		Preload("Loser").
		Preload("Tournament").
		Find(&matches).Error; err != nil {
		return nil, err
	}

	items := make([]models.PlayerMatchItem, len(matches))
	for i, match := range matches {
		playerWon := match.WinnerID == playerID
		opponent := match.Winner
		if playerWon {
			opponent = match.Loser
		}

		item := models.PlayerMatchItem{
			ID:           match.ID,
			Date:         match.Date,
			OpponentID:   opponent.ID,
			OpponentName: opponent.Name,
			PlayerWon:    playerWon,
		}
		if match.Tournament != nil {
			item.TournamentID = match.TournamentID
			item.TournamentName = &match.Tournament.Name
		}
		items[i] = item
	}

	return items, nil
}

// GetPlayerTournaments lists the tournaments a player appeared in,
// derived from their matches.
func (s *PlayerService) GetPlayerTournaments(playerID uint) ([]models.Tournament, error) {
	if _, err := s.GetPlayerByID(playerID); err != nil {
		return nil, err
	}

	var tournaments []models.Tournament
	if err := s.db.Distinct("tournaments.*").
		Joins("JOIN matches ON matches.tournament_id = tournaments.id AND matches.deleted_at IS NULL").
		Where("matches.winner_id = ? OR matches.loser_id = ?", playerID, playerID).
		Order("tournaments.date DESC").
		Find(&tournaments).Error; err != nil {
		return nil, err
	}

	return tournaments, nil
}

// GetPlayerSeasons lists the seasons whose window contains at least one
// of the player's matches.
func (s *PlayerService) GetPlayerSeasons(playerID uint) ([]models.Season, error) {
	if _, err := s.GetPlayerByID(playerID); err != nil {
		return nil, err
	}

	var seasons []models.Season
	if err := s.db.Distinct("seasons.*").
		Joins("JOIN matches ON matches.date >= seasons.starts_at AND matches.date <= seasons.ends_at AND matches.deleted_at IS NULL").
		Where("matches.winner_id = ? OR matches.loser_id = ?", playerID, playerID).
		Order("seasons.starts_at DESC").
		Find(&seasons).Error; err != nil {
		return nil, err
	}

	return seasons, nil
}
