package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"ladder-api/auth"
	"ladder-api/config"
	"ladder-api/core"
	"ladder-api/core/cache"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Ladder API
// @version         1.0
// @description     Competitive ladder API with deterministic Elo replay per season

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.ConnectDatabase()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	var leaderboardCache *cache.LeaderboardCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		leaderboardCache = cache.NewLeaderboardCache(addr)
		log.Printf("Leaderboard cache enabled (redis at %s)", addr)
	} else {
		log.Println("REDIS_ADDR not set, leaderboard cache disabled")
	}

	authModule := auth.NewModule(config.DB)
	authModule.SetupRoutes(r)

	coreModule := core.NewModule(config.DB, core.Config{
		LeaderboardCache:  leaderboardCache,
		ChallongeUsername: os.Getenv("CHALLONGE_USERNAME"),
		ChallongeAPIKey:   os.Getenv("CHALLONGE_API_KEY"),
	})
	coreModule.SetupRoutes(r)

	if err := coreModule.StartScheduler(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Swagger endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", healthHandler)

	// Finish queued season replays before the process exits.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Println("Shutting down...")
		coreModule.StopScheduler()
		os.Exit(0)
	}()

	port := getEnv("PORT", "8080")
	log.Printf("Server starting on port %s", port)
	r.Run(":" + port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Message  string `json:"message" example:"Server is running"`
	Database string `json:"database" example:"connected"`
}

// @Summary Health Check
// @Description Check if the server is running and database is connected
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func healthHandler(c *gin.Context) {
	c.JSON(200, HealthResponse{
		Message:  "Server is running",
		Database: "connected",
	})
}
