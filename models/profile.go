package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds contact details and the notification preference for a user,
// keyed by email. A missing profile, or a missing notifyByEmail field,
// defaults to "notify".
type Profile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName      string             `bson:"fullName" json:"fullName"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Gender        string             `bson:"gender,omitempty" json:"gender,omitempty"`
	DateOfBirth   string             `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	NotifyByEmail *bool              `bson:"notifyByEmail,omitempty" json:"notifyByEmail,omitempty"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
