package routes

import (
	"civiclens-be/controllers"
	"civiclens-be/middlewares"
	authUtils "civiclens-be/utils"

	"github.com/gin-gonic/gin"
)

// Each user may open at most this many issues per day
const dailyIssueLimit = 10

// IssueRoutes sets up the issue lifecycle routes
func IssueRoutes(r *gin.Engine, issues *controllers.IssueController, tokens *authUtils.TokenManager) {
	g := r.Group("/api/issues")
	{
		g.GET("", issues.ListIssues)
		g.GET("/escalated", issues.GetEscalatedIssues)
		g.GET("/:id", issues.GetIssue)

		auth := middlewares.AuthMiddleware(tokens)
		g.POST("", auth, middlewares.IssueRateLimiter(dailyIssueLimit), issues.CreateIssue)
		g.PUT("/:id", auth, issues.UpdateIssue)
		g.PUT("/:id/status", auth, issues.UpdateIssueStatus)
		g.POST("/:id/add-update", auth, issues.AddIssueUpdate)
		g.POST("/:id/claim", auth, issues.ClaimIssue)
		g.POST("/:id/escalate", auth, issues.EscalateIssue)
		g.POST("/:id/attachments", auth, issues.UploadAttachment)
		g.POST("/:id/verify", auth, issues.VerifyIssue)
	}
}
