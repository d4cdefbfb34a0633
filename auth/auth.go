package auth

import (
	"ladder-api/auth/handlers"
	"ladder-api/auth/middleware"
	"ladder-api/core/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Module struct {
	Handler *handlers.AuthHandler
}

func NewModule(db *gorm.DB) *Module {
	return &Module{
		Handler: handlers.NewAuthHandler(db),
	}
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", m.Handler.Login)
		auth.GET("/me", middleware.JWTMiddleware(), m.Handler.Me)
	}
}

func JWTMiddleware() gin.HandlerFunc {
	return middleware.JWTMiddleware()
}

func GetUserID(c *gin.Context) (uint, bool) {
	return middleware.GetUserID(c)
}

// RequireJudge gates the write endpoints: only judges record results.
func RequireJudge(db *gorm.DB) gin.HandlerFunc {
	return middleware.RequireRole(db, models.RoleJudge)
}
