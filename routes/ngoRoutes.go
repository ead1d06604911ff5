package routes

import (
	"civiclens-be/controllers"
	"civiclens-be/middlewares"
	authUtils "civiclens-be/utils"

	"github.com/gin-gonic/gin"
)

// NGORoutes sets up NGO registration, public profile and issue coordination
// routes
func NGORoutes(r *gin.Engine, ngos *controllers.NGOController, tokens *authUtils.TokenManager) {
	auth := middlewares.AuthMiddleware(tokens)

	ngoAuth := r.Group("/api/ngo/auth")
	{
		ngoAuth.POST("/signup", ngos.Signup)
		ngoAuth.POST("/login", ngos.Login)
	}

	ngoIssues := r.Group("/api/ngo/issues")
	{
		ngoIssues.POST("/:id/claim", auth, ngos.ClaimIssue)
		ngoIssues.POST("/:id/update", auth, ngos.UpdateIssue)
	}

	public := r.Group("/api/ngos")
	{
		public.GET("/:email", ngos.GetNGO)
		public.GET("/:email/stats", ngos.GetNGOStats)
		public.POST("/:email/follow", ngos.FollowNGO)
	}
}
