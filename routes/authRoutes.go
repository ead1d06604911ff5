package routes

import (
	"civiclens-be/controllers"
	"civiclens-be/middlewares"
	authUtils "civiclens-be/utils"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, auth *controllers.AuthController, tokens *authUtils.TokenManager) {
	g := r.Group("/api/auth")
	{
		g.POST("/signup", auth.Signup)
		g.POST("/login", auth.Login)
		g.POST("/logout", auth.Logout)
		g.GET("/me", middlewares.AuthMiddleware(tokens), auth.GetMe)
	}
}
