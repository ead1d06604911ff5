package controllers

import (
	"context"
	"net/http"
	"time"

	"civiclens-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileController handles the per-user profile that carries contact
// details and the email notification preference.
type ProfileController struct {
	profiles *mongo.Collection
	users    *mongo.Collection
}

func NewProfileController(db *mongo.Database) *ProfileController {
	return &ProfileController{
		profiles: db.Collection("profiles"),
		users:    db.Collection("users"),
	}
}

// GetProfile returns the authenticated user's profile. A user without a
// profile gets the defaults rather than a 404 so clients can render the form.
func (p *ProfileController) GetProfile(c *gin.Context) {
	email, ok := p.authedEmail(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err := p.profiles.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			notify := true
			c.JSON(http.StatusOK, models.Profile{Email: email, NotifyByEmail: &notify})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpsertProfile creates or updates the authenticated user's profile
func (p *ProfileController) UpsertProfile(c *gin.Context) {
	email, ok := p.authedEmail(c)
	if !ok {
		return
	}

	var input struct {
		FullName      string `json:"fullName" binding:"required,max=100"`
		Phone         string `json:"phone,omitempty" binding:"max=20"`
		Gender        string `json:"gender,omitempty" binding:"max=20"`
		DateOfBirth   string `json:"dateOfBirth,omitempty" binding:"max=20"`
		NotifyByEmail *bool  `json:"notifyByEmail,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notifyByEmail := true
	if input.NotifyByEmail != nil {
		notifyByEmail = *input.NotifyByEmail
	}

	update := bson.M{"$set": bson.M{
		"fullName":      input.FullName,
		"email":         email,
		"phone":         input.Phone,
		"gender":        input.Gender,
		"dateOfBirth":   input.DateOfBirth,
		"notifyByEmail": notifyByEmail,
		"updatedAt":     time.Now(),
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := p.profiles.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	var profile models.Profile
	if err := p.profiles.FindOne(ctx, bson.M{"email": email}).Decode(&profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// authedEmail resolves the authenticated user's email, writing the error
// response on failure.
func (p *ProfileController) authedEmail(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}

	objID, err := primitive.ObjectIDFromHex(userIDVal.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := p.users.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return "", false
	}

	return user.Email, true
}
