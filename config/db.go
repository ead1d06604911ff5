package config

import (
	"context"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	db     *mongo.Database
	client *mongo.Client
	once   sync.Once
)

// ConnectDB initializes and returns the MongoDB database handle. A failed
// ping is logged but does not stop the process: the service keeps serving
// and individual requests fail until the store becomes reachable.
func ConnectDB(uri, name string) *mongo.Database {
	once.Do(func() {
		if uri == "" {
			log.Println("MONGODB_URI is not set, persistence is unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			log.Printf("Failed to create MongoDB client: %v", err)
			return
		}

		if err := c.Ping(ctx, nil); err != nil {
			log.Printf("MongoDB ping failed: %v (continuing, requests will fail until the store is reachable)", err)
		} else {
			log.Println("Connected to MongoDB!")
		}

		client = c
		db = client.Database(name)
	})

	return db
}
