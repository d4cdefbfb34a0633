package handlers

import (
	"net/http"

	"ladder-api/core/models"
	"ladder-api/core/services"

	"github.com/gin-gonic/gin"
)

type TournamentHandler struct {
	tournamentService *services.TournamentService
	importService     *services.ImportService
}

func NewTournamentHandler(tournamentService *services.TournamentService, importService *services.ImportService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: tournamentService,
		importService:     importService,
	}
}

// GetAllTournaments lists every tournament
// @Summary List tournaments
// @Tags tournaments
// @Produce json
// @Success 200 {array} models.Tournament
// @Failure 500 {object} map[string]string
// @Router /tournaments [get]
func (h *TournamentHandler) GetAllTournaments(c *gin.Context) {
	tournaments, err := h.tournamentService.GetAllTournaments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tournaments"})
		return
	}

	c.JSON(http.StatusOK, tournaments)
}

// GetTournament retrieves a tournament by ID
// @Summary Get tournament by ID
// @Tags tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} models.Tournament
// @Failure 404 {object} map[string]string
// @Router /tournaments/{id} [get]
func (h *TournamentHandler) GetTournament(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tournament, err := h.tournamentService.GetTournamentByID(id)
	if err != nil {
		if err.Error() == "tournament not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, tournament)
}

// GetTournamentMatches lists the matches played in a tournament
// @Summary Get tournament matches
// @Tags tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {array} models.Match
// @Failure 404 {object} map[string]string
// @Router /tournaments/{id}/matches [get]
func (h *TournamentHandler) GetTournamentMatches(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	matches, err := h.tournamentService.GetTournamentMatches(id)
	if err != nil {
		if err.Error() == "tournament not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve matches"})
		return
	}

	c.JSON(http.StatusOK, matches)
}

// CreateTournament records a tournament result
// @Summary Create tournament
// @Tags tournaments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateTournamentRequest true "Tournament"
// @Success 201 {object} models.Tournament
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tournaments [post]
func (h *TournamentHandler) CreateTournament(c *gin.Context) {
	var req models.CreateTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tournament, err := h.tournamentService.CreateTournament(req)
	if err != nil {
		if err.Error() == "winner not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tournament"})
		return
	}

	c.JSON(http.StatusCreated, tournament)
}

// UpdateTournament edits a tournament
// @Summary Update tournament
// @Tags tournaments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Tournament ID"
// @Param request body models.UpdateTournamentRequest true "Changes"
// @Success 200 {object} models.Tournament
// @Failure 404 {object} map[string]string
// @Router /tournaments/{id} [patch]
func (h *TournamentHandler) UpdateTournament(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tournament, err := h.tournamentService.UpdateTournament(id, req)
	if err != nil {
		switch err.Error() {
		case "tournament not found", "winner not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, tournament)
}

// DeleteTournament removes a tournament
// @Summary Delete tournament
// @Tags tournaments
// @Security BearerAuth
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tournaments/{id} [delete]
func (h *TournamentHandler) DeleteTournament(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tournamentService.DeleteTournament(id); err != nil {
		if err.Error() == "tournament not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tournament"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tournament deleted"})
}

// PreviewImport shows what importing a Challonge bracket would do
// @Summary Preview Challonge import
// @Description Fetch a bracket from Challonge and report matched and new participants without writing anything
// @Tags tournaments
// @Security BearerAuth
// @Produce json
// @Param ref path string true "Challonge tournament URL slug or ID"
// @Success 200 {object} models.ImportPreview
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /import/tournaments/{ref}/preview [get]
func (h *TournamentHandler) PreviewImport(c *gin.Context) {
	ref := c.Param("ref")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tournament reference required"})
		return
	}

	preview, err := h.importService.PreviewTournament(ref)
	if err != nil {
		c.JSON(importErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, preview)
}

// ImportTournament imports a completed Challonge bracket
// @Summary Import Challonge tournament
// @Description Create missing players, the tournament, and its completed matches from a Challonge bracket, then replay the covering season
// @Tags tournaments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ImportTournamentRequest true "Import"
// @Success 201 {object} models.ImportResult
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /import/tournaments [post]
func (h *TournamentHandler) ImportTournament(c *gin.Context) {
	var req models.ImportTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.importService.ImportTournament(req)
	if err != nil {
		c.JSON(importErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

func importErrorStatus(err error) int {
	switch err.Error() {
	case "tournament not found on Challonge":
		return http.StatusNotFound
	case "invalid Challonge credentials", "challonge credentials not configured":
		return http.StatusServiceUnavailable
	case "Challonge rate limit exceeded, try again later":
		return http.StatusTooManyRequests
	case "tournament has no participants",
		"tournament has no completed matches to import",
		"could not determine tournament winner",
		"could not resolve tournament winner":
		return http.StatusBadRequest
	case "failed to connect to Challonge API":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
