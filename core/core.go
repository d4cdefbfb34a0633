package core

import (
	"log"

	"ladder-api/auth"
	"ladder-api/core/cache"
	"ladder-api/core/cron"
	"ladder-api/core/handlers"
	"ladder-api/core/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Module struct {
	PlayerHandler     *handlers.PlayerHandler
	PlayerService     *services.PlayerService
	SeasonHandler     *handlers.SeasonHandler
	SeasonService     *services.SeasonService
	MatchHandler      *handlers.MatchHandler
	MatchService      *services.MatchService
	TournamentHandler *handlers.TournamentHandler
	TournamentService *services.TournamentService
	EloHandler        *handlers.EloHandler
	EloQueryService   *services.EloQueryService
	StatsHandler      *handlers.StatsHandler
	StatsService      *services.StatsService
	MergeService      *services.MergeService
	ImportService     *services.ImportService
	RecalcService     *services.RecalculationService
	Scheduler         *cron.Scheduler
	db                *gorm.DB
}

type Config struct {
	LeaderboardCache  *cache.LeaderboardCache
	ChallongeUsername string
	ChallongeAPIKey   string
}

func NewModule(db *gorm.DB, cfg Config) *Module {
	recalcService := services.NewRecalculationService(db, cfg.LeaderboardCache)

	playerService := services.NewPlayerService(db)
	mergeService := services.NewMergeService(db, recalcService)
	playerHandler := handlers.NewPlayerHandler(playerService, mergeService)

	seasonService := services.NewSeasonService(db, recalcService)
	seasonHandler := handlers.NewSeasonHandler(seasonService)

	matchService := services.NewMatchService(db, recalcService)
	matchHandler := handlers.NewMatchHandler(matchService)

	importService := services.NewImportService(db, recalcService, cfg.ChallongeUsername, cfg.ChallongeAPIKey)
	tournamentService := services.NewTournamentService(db, recalcService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, importService)

	eloQueryService := services.NewEloQueryService(db, cfg.LeaderboardCache)
	eloHandler := handlers.NewEloHandler(eloQueryService, recalcService)

	statsService := services.NewStatsService(db)
	statsHandler := handlers.NewStatsHandler(statsService)

	scheduler := cron.NewScheduler(db, recalcService)

	return &Module{
		PlayerHandler:     playerHandler,
		PlayerService:     playerService,
		SeasonHandler:     seasonHandler,
		SeasonService:     seasonService,
		MatchHandler:      matchHandler,
		MatchService:      matchService,
		TournamentHandler: tournamentHandler,
		TournamentService: tournamentService,
		EloHandler:        eloHandler,
		EloQueryService:   eloQueryService,
		StatsHandler:      statsHandler,
		StatsService:      statsService,
		MergeService:      mergeService,
		ImportService:     importService,
		RecalcService:     recalcService,
		Scheduler:         scheduler,
		db:                db,
	}
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	jwt := auth.JWTMiddleware()
	judge := auth.RequireJudge(m.db)

	players := r.Group("/players")
	{
		players.GET("", m.PlayerHandler.GetAllPlayers)
		players.GET("/:id", m.PlayerHandler.GetPlayer)
		players.GET("/:id/matches", m.PlayerHandler.GetPlayerMatches)
		players.GET("/:id/tournaments", m.PlayerHandler.GetPlayerTournaments)
		players.GET("/:id/seasons", m.PlayerHandler.GetPlayerSeasons)
		players.POST("", jwt, judge, m.PlayerHandler.CreatePlayer)
		players.PATCH("/:id", jwt, judge, m.PlayerHandler.UpdatePlayer)
		players.POST("/merge", jwt, judge, m.PlayerHandler.MergePlayers)
	}

	seasons := r.Group("/seasons")
	{
		seasons.GET("", m.SeasonHandler.GetAllSeasons)
		seasons.GET("/:id", m.SeasonHandler.GetSeason)
		seasons.POST("", jwt, judge, m.SeasonHandler.CreateSeason)
		seasons.PATCH("/:id", jwt, judge, m.SeasonHandler.UpdateSeason)
		seasons.DELETE("/:id", jwt, judge, m.SeasonHandler.DeleteSeason)
	}

	matches := r.Group("/matches")
	{
		matches.GET("", m.MatchHandler.GetMatches)
		matches.GET("/recent", m.MatchHandler.GetRecentMatches)
		matches.GET("/:id", m.MatchHandler.GetMatch)
		matches.POST("", jwt, judge, m.MatchHandler.CreateMatch)
		matches.PATCH("/:id", jwt, judge, m.MatchHandler.UpdateMatch)
		matches.DELETE("/:id", jwt, judge, m.MatchHandler.DeleteMatch)
	}

	tournaments := r.Group("/tournaments")
	{
		tournaments.GET("", m.TournamentHandler.GetAllTournaments)
		tournaments.GET("/:id", m.TournamentHandler.GetTournament)
		tournaments.GET("/:id/matches", m.TournamentHandler.GetTournamentMatches)
		tournaments.POST("", jwt, judge, m.TournamentHandler.CreateTournament)
		tournaments.PATCH("/:id", jwt, judge, m.TournamentHandler.UpdateTournament)
		tournaments.DELETE("/:id", jwt, judge, m.TournamentHandler.DeleteTournament)
	}

	imports := r.Group("/import")
	{
		imports.GET("/tournaments/:ref/preview", jwt, judge, m.TournamentHandler.PreviewImport)
		imports.POST("/tournaments", jwt, judge, m.TournamentHandler.ImportTournament)
	}

	elo := r.Group("/elo")
	{
		elo.GET("/players/:playerId/seasons/:seasonId", m.EloHandler.GetPlayerCurrentElo)
		elo.GET("/players/:playerId/seasons/:seasonId/history", m.EloHandler.GetPlayerEloHistory)
		elo.GET("/players/:playerId/seasons/:seasonId/stats", m.EloHandler.GetPlayerSeasonStats)
		elo.GET("/seasons/:seasonId/leaderboard", m.EloHandler.GetSeasonLeaderboard)
		elo.POST("/seasons/:seasonId/recalculate", jwt, judge, m.EloHandler.RecalculateSeason)
	}

	r.GET("/stats", m.StatsHandler.GetStats)
}

// StartScheduler starts the nightly integrity sweep
func (m *Module) StartScheduler() error {
	log.Println("Starting core module scheduler...")
	return m.Scheduler.Start()
}

// StopScheduler stops the scheduler and waits for queued replays
func (m *Module) StopScheduler() {
	log.Println("Stopping core module scheduler...")
	m.Scheduler.Stop()
	m.RecalcService.Wait()
}

// RunIntegritySweepNow manually triggers the sweep (useful for testing)
func (m *Module) RunIntegritySweepNow() {
	m.Scheduler.RunNow()
}
