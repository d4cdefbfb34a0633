package handlers

import (
	"net/http"
	"strconv"

	"ladder-api/core/models"
	"ladder-api/core/services"

	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	playerService *services.PlayerService
	mergeService  *services.MergeService
}

func NewPlayerHandler(playerService *services.PlayerService, mergeService *services.MergeService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		mergeService:  mergeService,
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// GetAllPlayers lists every player
// @Summary List players
// @Description List all players with role and account status
// @Tags players
// @Produce json
// @Success 200 {array} models.PlayerListItem
// @Failure 500 {object} map[string]string
// @Router /players [get]
func (h *PlayerHandler) GetAllPlayers(c *gin.Context) {
	players, err := h.playerService.GetAllPlayers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve players"})
		return
	}

	c.JSON(http.StatusOK, players)
}

// GetPlayer retrieves a player by ID
// @Summary Get player by ID
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} models.Player
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /players/{id} [get]
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	player, err := h.playerService.GetPlayerByID(id)
	if err != nil {
		if err.Error() == "player not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, player)
}

// CreatePlayer creates a player record
// @Summary Create player
// @Description Create a player or judge (judge only)
// @Tags players
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreatePlayerRequest true "Player"
// @Success 201 {object} models.Player
// @Failure 400 {object} map[string]string
// @Router /players [post]
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	var req models.CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.playerService.CreatePlayer(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create player"})
		return
	}

	c.JSON(http.StatusCreated, player)
}

// UpdatePlayer updates name or role
// @Summary Update player
// @Tags players
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Player ID"
// @Param request body models.UpdatePlayerRequest true "Changes"
// @Success 200 {object} models.Player
// @Failure 404 {object} map[string]string
// @Router /players/{id} [patch]
func (h *PlayerHandler) UpdatePlayer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.playerService.UpdatePlayer(id, req)
	if err != nil {
		if err.Error() == "player not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, player)
}

// GetPlayerMatches lists a player's matches
// @Summary Get player matches
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {array} models.PlayerMatchItem
// @Failure 404 {object} map[string]string
// @Router /players/{id}/matches [get]
func (h *PlayerHandler) GetPlayerMatches(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	matches, err := h.playerService.GetPlayerMatches(id)
	if err != nil {
		if err.Error() == "player not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve matches"})
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetPlayerTournaments lists tournaments a player appeared in
// @Summary Get player tournaments
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {array} models.Tournament
// @Failure 404 {object} map[string]string
// @Router /players/{id}/tournaments [get]
func (h *PlayerHandler) GetPlayerTournaments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tournaments, err := h.playerService.GetPlayerTournaments(id)
	if err != nil {
		if err.Error() == "player not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tournaments"})
		return
	}

	c.JSON(http.StatusOK, tournaments)
}

// GetPlayerSeasons lists seasons a player has matches in
// @Summary Get player seasons
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {array} models.Season
// @Failure 404 {object} map[string]string
// @Router /players/{id}/seasons [get]
func (h *PlayerHandler) GetPlayerSeasons(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	seasons, err := h.playerService.GetPlayerSeasons(id)
	if err != nil {
		if err.Error() == "player not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve seasons"})
		return
	}

	c.JSON(http.StatusOK, seasons)
}

// MergePlayers merges one player into another
// @Summary Merge players
// @Description Reassign the source player's matches and tournament wins to the target, drop the source, and replay affected seasons (judge only)
// @Tags players
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.MergePlayersRequest true "Merge"
// @Success 200 {object} models.MergePlayersResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /players/merge [post]
func (h *PlayerHandler) MergePlayers(c *gin.Context) {
	var req models.MergePlayersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.mergeService.MergePlayers(req.SourceID, req.TargetID)
	if err != nil {
		switch err.Error() {
		case "source player not found", "target player not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case "source and target must be different players",
			"players have matches against each other and cannot be merged":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Merge failed"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
