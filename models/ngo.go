package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImpactStats are cumulative counters on an NGO record. They only ever grow.
type ImpactStats struct {
	IssuesClaimed   int64 `bson:"issuesClaimed" json:"issuesClaimed"`
	IssuesSolved    int64 `bson:"issuesSolved" json:"issuesSolved"`
	VolunteerHours  int64 `bson:"volunteerHours" json:"volunteerHours"`
	ResourcesRaised int64 `bson:"resourcesRaised" json:"resourcesRaised"`
}

// NGO is the public organization record, keyed by email. The matching auth
// identity lives in the users collection under the same email.
type NGO struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Profile   string             `bson:"profile" json:"profile"`
	Impact    ImpactStats        `bson:"impactStats" json:"impactStats"`
	Followers []string           `bson:"followers" json:"followers"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EnsureNGOIndexes creates the unique index on NGO email
func EnsureNGOIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
