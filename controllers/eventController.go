package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"civiclens-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventController handles NGO events, volunteers and wishlist donations
type EventController struct {
	events *mongo.Collection
	ngos   *mongo.Collection
	issues *mongo.Collection
}

func NewEventController(db *mongo.Database) *EventController {
	return &EventController{
		events: db.Collection("events"),
		ngos:   db.Collection("ngos"),
		issues: db.Collection("issues"),
	}
}

// ListEvents returns all events, soonest first
func (e *EventController) ListEvents(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := e.events.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// CreateEvent creates an event owned by an NGO, optionally linked to an issue
func (e *EventController) CreateEvent(c *gin.Context) {
	var input struct {
		Title       string    `json:"title" binding:"required,max=200"`
		Description string    `json:"description" binding:"max=2000"`
		NGOEmail    string    `json:"ngoEmail" binding:"required,email"`
		IssueID     string    `json:"issueId,omitempty"`
		Date        time.Time `json:"date" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var ngo models.NGO
	if err := e.ngos.FindOne(ctx, bson.M{"email": input.NGOEmail}).Decode(&ngo); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve NGO"})
		}
		return
	}

	event := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		NGOEmail:    ngo.Email,
		NGOName:     ngo.Name,
		Date:        input.Date,
		Volunteers:  []models.Volunteer{},
		Wishlist:    []models.WishlistItem{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if input.IssueID != "" {
		issueID, err := primitive.ObjectIDFromHex(input.IssueID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
			return
		}
		count, err := e.issues.CountDocuments(ctx, bson.M{"_id": issueID})
		if err != nil || count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Linked issue not found"})
			return
		}
		event.IssueID = &issueID

		// Back-reference so the issue page can surface the event
		if _, err := e.issues.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": bson.M{"eventId": event.ID}}); err != nil {
			log.Printf("Failed to link event %s to issue %s: %v", event.ID.Hex(), issueID.Hex(), err)
		}
	}

	if _, err := e.events.InsertOne(ctx, event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// AddVolunteer signs a person up for an event
func (e *EventController) AddVolunteer(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var input struct {
		Name  string `json:"name" binding:"required,max=100"`
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := e.events.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
		"$push": bson.M{"volunteers": models.Volunteer{Name: input.Name, Email: input.Email}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add volunteer"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Volunteer added"})
}

// AddWishlistItem adds a requested donation item to an event
func (e *EventController) AddWishlistItem(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var input struct {
		Item     string `json:"item" binding:"required,max=100"`
		Quantity int    `json:"quantity" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := e.events.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
		"$push": bson.M{"wishlist": models.WishlistItem{Item: input.Item, Quantity: input.Quantity}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add wishlist item"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wishlist item added"})
}

// DonateItem records a donation against a wishlist item. Donated may exceed
// the requested quantity. The owning NGO's resourcesRaised counter grows by
// the donated count.
func (e *EventController) DonateItem(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var input struct {
		Item  string `json:"item" binding:"required,max=100"`
		Count int    `json:"count" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var event models.Event
	if err := e.events.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		}
		return
	}

	result, err := e.events.UpdateOne(ctx,
		bson.M{"_id": eventID, "wishlist.item": input.Item},
		bson.M{
			"$inc": bson.M{"wishlist.$.donated": input.Count},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record donation"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not on the wishlist"})
		return
	}

	_, err = e.ngos.UpdateOne(ctx, bson.M{"email": event.NGOEmail}, bson.M{
		"$inc": bson.M{"impactStats.resourcesRaised": int64(input.Count)},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		log.Printf("Failed to bump resources counter for NGO %s: %v", event.NGOEmail, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Donation recorded"})
}
