package handlers

import (
	"net/http"

	"ladder-api/core/models"
	"ladder-api/core/services"

	"github.com/gin-gonic/gin"
)

type SeasonHandler struct {
	seasonService *services.SeasonService
}

func NewSeasonHandler(seasonService *services.SeasonService) *SeasonHandler {
	return &SeasonHandler{seasonService: seasonService}
}

// GetAllSeasons lists every season
// @Summary List seasons
// @Tags seasons
// @Produce json
// @Success 200 {array} models.Season
// @Failure 500 {object} map[string]string
// @Router /seasons [get]
func (h *SeasonHandler) GetAllSeasons(c *gin.Context) {
	seasons, err := h.seasonService.GetAllSeasons()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve seasons"})
		return
	}

	c.JSON(http.StatusOK, seasons)
}

// GetSeason retrieves a season by ID
// @Summary Get season by ID
// @Tags seasons
// @Produce json
// @Param id path int true "Season ID"
// @Success 200 {object} models.Season
// @Failure 404 {object} map[string]string
// @Router /seasons/{id} [get]
func (h *SeasonHandler) GetSeason(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	season, err := h.seasonService.GetSeasonByID(id)
	if err != nil {
		if err.Error() == "season not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Season not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, season)
}

// CreateSeason creates a season and schedules its first replay
// @Summary Create season
// @Tags seasons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateSeasonRequest true "Season"
// @Success 201 {object} models.Season
// @Failure 400 {object} map[string]string
// @Router /seasons [post]
func (h *SeasonHandler) CreateSeason(c *gin.Context) {
	var req models.CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	season, err := h.seasonService.CreateSeason(req)
	if err != nil {
		if err.Error() == "season end must not be before season start" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create season"})
		return
	}

	c.JSON(http.StatusCreated, season)
}

// UpdateSeason updates a season, replaying it when the window moves
// @Summary Update season
// @Tags seasons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Season ID"
// @Param request body models.UpdateSeasonRequest true "Changes"
// @Success 200 {object} models.Season
// @Failure 404 {object} map[string]string
// @Router /seasons/{id} [patch]
func (h *SeasonHandler) UpdateSeason(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	season, err := h.seasonService.UpdateSeason(id, req)
	if err != nil {
		switch err.Error() {
		case "season not found":
			c.JSON(http.StatusNotFound, gin.H{"error": "Season not found"})
		case "season end must not be before season start":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, season)
}

// DeleteSeason removes a season
// @Summary Delete season
// @Tags seasons
// @Security BearerAuth
// @Produce json
// @Param id path int true "Season ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /seasons/{id} [delete]
func (h *SeasonHandler) DeleteSeason(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.seasonService.DeleteSeason(id); err != nil {
		if err.Error() == "season not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Season not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete season"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Season deleted"})
}
