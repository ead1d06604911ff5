package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Volunteer is a person signed up for an event
type Volunteer struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// WishlistItem is a requested donation on an event. Donated exceeding
// Quantity is not enforced.
type WishlistItem struct {
	Item     string `bson:"item" json:"item"`
	Quantity int    `bson:"quantity" json:"quantity"`
	Donated  int    `bson:"donated" json:"donated"`
}

// Event is an NGO-organized activity, optionally linked to an issue
type Event struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	NGOEmail    string              `bson:"ngoEmail" json:"ngoEmail"`
	NGOName     string              `bson:"ngoName" json:"ngoName"`
	IssueID     *primitive.ObjectID `bson:"issueId,omitempty" json:"issueId,omitempty"`
	Date        time.Time           `bson:"date" json:"date"`
	Volunteers  []Volunteer         `bson:"volunteers" json:"volunteers"`
	Wishlist    []WishlistItem      `bson:"wishlist" json:"wishlist"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
