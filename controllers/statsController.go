package controllers

import (
	"context"
	"net/http"
	"time"

	"civiclens-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatsController serves aggregate issue counts
type StatsController struct {
	issues *mongo.Collection
}

func NewStatsController(db *mongo.Database) *StatsController {
	return &StatsController{issues: db.Collection("issues")}
}

// GetStats returns issue totals broken down by status and category
func (s *StatsController) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	byStatus, err := s.groupCounts(ctx, "$status")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get status counts"})
		return
	}

	byCategory, err := s.groupCounts(ctx, "$category")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category counts"})
		return
	}

	totalIssues, err := s.issues.CountDocuments(ctx, bson.M{})
	if err != nil {
		totalIssues = 0
	}

	openIssues, err := s.issues.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []models.IssueStatus{
			models.StatusPending,
			models.StatusInProgress,
			models.StatusClaimed,
			models.StatusCommunityInProgress,
		}},
	})
	if err != nil {
		openIssues = 0
	}

	escalated, err := s.issues.CountDocuments(ctx, bson.M{"escalated": true})
	if err != nil {
		escalated = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"issuesByStatus":   byStatus,
		"issuesByCategory": byCategory,
		"totalIssues":      totalIssues,
		"openIssues":       openIssues,
		"escalatedIssues":  escalated,
	})
}

func (s *StatsController) groupCounts(ctx context.Context, field string) ([]bson.M, error) {
	pipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":   field,
				"count": bson.M{"$sum": 1},
			},
		},
		{
			"$project": bson.M{
				"name":  "$_id",
				"value": "$count",
				"_id":   0,
			},
		},
	}

	cursor, err := s.issues.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []bson.M
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
