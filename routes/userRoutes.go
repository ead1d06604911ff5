package routes

import (
	"civiclens-be/controllers"
	"civiclens-be/middlewares"
	authUtils "civiclens-be/utils"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the profile and stats routes
func UserRoutes(r *gin.Engine, profiles *controllers.ProfileController, stats *controllers.StatsController, tokens *authUtils.TokenManager) {
	auth := middlewares.AuthMiddleware(tokens)

	g := r.Group("/api/profile")
	{
		g.GET("", auth, profiles.GetProfile)
		g.POST("", auth, profiles.UpsertProfile)
	}

	r.GET("/api/stats", stats.GetStats)
}
