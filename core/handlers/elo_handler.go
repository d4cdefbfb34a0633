package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ladder-api/core/services"

	"github.com/gin-gonic/gin"
)

type EloHandler struct {
	eloService    *services.EloQueryService
	recalcService *services.RecalculationService
}

func NewEloHandler(eloService *services.EloQueryService, recalcService *services.RecalculationService) *EloHandler {
	return &EloHandler{
		eloService:    eloService,
		recalcService: recalcService,
	}
}

// GetPlayerCurrentElo returns a player's effective rating in a season
// @Summary Current Elo
// @Description Latest snapshot projected through inactivity decay at request time. Null when the player has no rating in the season.
// @Tags elo
// @Produce json
// @Param playerId path int true "Player ID"
// @Param seasonId path int true "Season ID"
// @Success 200 {object} models.CurrentEloResponse
// @Failure 400 {object} map[string]string
// @Router /elo/players/{playerId}/seasons/{seasonId} [get]
func (h *EloHandler) GetPlayerCurrentElo(c *gin.Context) {
	playerID, ok := parseIDParam(c, "playerId")
	if !ok {
		return
	}
	seasonID, ok := parseIDParam(c, "seasonId")
	if !ok {
		return
	}

	elo, err := h.eloService.GetPlayerCurrentElo(playerID, seasonID, time.Now().UnixMilli())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rating"})
		return
	}

	c.JSON(http.StatusOK, elo)
}

// GetSeasonLeaderboard returns a season's standings
// @Summary Season leaderboard
// @Description Participants ordered by decayed rating, highest first
// @Tags elo
// @Produce json
// @Param seasonId path int true "Season ID"
// @Param limit query int false "Max entries, 0 for all" default(0)
// @Success 200 {array} models.LeaderboardEntry
// @Failure 400 {object} map[string]string
// @Router /elo/seasons/{seasonId}/leaderboard [get]
func (h *EloHandler) GetSeasonLeaderboard(c *gin.Context) {
	seasonID, ok := parseIDParam(c, "seasonId")
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}

	leaderboard, err := h.eloService.GetSeasonLeaderboard(seasonID, time.Now().UnixMilli(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute leaderboard"})
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}

// GetPlayerEloHistory returns a player's snapshot sequence in a season
// @Summary Elo history
// @Tags elo
// @Produce json
// @Param playerId path int true "Player ID"
// @Param seasonId path int true "Season ID"
// @Success 200 {array} models.EloHistoryItem
// @Failure 400 {object} map[string]string
// @Router /elo/players/{playerId}/seasons/{seasonId}/history [get]
func (h *EloHandler) GetPlayerEloHistory(c *gin.Context) {
	playerID, ok := parseIDParam(c, "playerId")
	if !ok {
		return
	}
	seasonID, ok := parseIDParam(c, "seasonId")
	if !ok {
		return
	}

	history, err := h.eloService.GetPlayerEloHistory(playerID, seasonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetPlayerSeasonStats returns a player's record for one season
// @Summary Player season stats
// @Tags elo
// @Produce json
// @Param playerId path int true "Player ID"
// @Param seasonId path int true "Season ID"
// @Success 200 {object} models.PlayerSeasonStats
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /elo/players/{playerId}/seasons/{seasonId}/stats [get]
func (h *EloHandler) GetPlayerSeasonStats(c *gin.Context) {
	playerID, ok := parseIDParam(c, "playerId")
	if !ok {
		return
	}
	seasonID, ok := parseIDParam(c, "seasonId")
	if !ok {
		return
	}

	stats, err := h.eloService.GetPlayerSeasonStats(playerID, seasonID, time.Now().UnixMilli())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	if stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Season not found"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RecalculateSeason replays one season's ratings synchronously
// @Summary Recalculate season
// @Description Drop the season's snapshots and rebuild them from its matches and tournaments (judge only)
// @Tags elo
// @Security BearerAuth
// @Produce json
// @Param seasonId path int true "Season ID"
// @Param from query int false "Advisory lower bound in epoch ms; the replay always covers the whole season"
// @Success 200 {object} models.RecalculationResult
// @Failure 404 {object} map[string]string
// @Router /elo/seasons/{seasonId}/recalculate [post]
func (h *EloHandler) RecalculateSeason(c *gin.Context) {
	seasonID, ok := parseIDParam(c, "seasonId")
	if !ok {
		return
	}

	var from *int64
	if raw := c.Query("from"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from timestamp"})
			return
		}
		from = &value
	}

	result, err := h.recalcService.RecalculateSeason(seasonID, from)
	if err != nil {
		if errors.Is(err, services.ErrSeasonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Season not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recalculation failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
