package routes

import (
	"civiclens-be/controllers"
	"civiclens-be/middlewares"
	authUtils "civiclens-be/utils"

	"github.com/gin-gonic/gin"
)

// EventRoutes sets up event and wishlist routes
func EventRoutes(r *gin.Engine, events *controllers.EventController, tokens *authUtils.TokenManager) {
	g := r.Group("/api/events")
	{
		g.GET("", events.ListEvents)
		g.POST("", middlewares.AuthMiddleware(tokens), events.CreateEvent)
		g.POST("/:id/volunteer", events.AddVolunteer)
		g.POST("/:id/wishlist", middlewares.AuthMiddleware(tokens), events.AddWishlistItem)
		g.POST("/:id/donate-item", events.DonateItem)
	}
}
