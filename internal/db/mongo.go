package db

import (
	"context"
	"fmt"
	"time"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/users"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionUsers = "users"

// Connect dials MongoDB and pings it. monitor, when set, receives server
// heartbeat events.
func Connect(ctx context.Context, uri, dbName string, monitor *event.ServerMonitor) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().ApplyURI(uri)
	if monitor != nil {
		opts.SetServerMonitor(monitor)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, client.Database(dbName), nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	newestFirst := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
	for _, name := range []string{
		portfolio.CollectionProjects,
		portfolio.CollectionAbout,
		portfolio.CollectionContact,
	} {
		if _, err := db.Collection(name).Indexes().CreateOne(indexTimeout, newestFirst); err != nil {
			return fmt.Errorf("index %s: %w", name, err)
		}
	}

	_, err := db.Collection(portfolio.CollectionTestimonials).Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		newestFirst,
		{Keys: bson.D{{Key: "approved", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("index %s: %w", portfolio.CollectionTestimonials, err)
	}

	if err := users.EnsureIndexes(indexTimeout, db.Collection(CollectionUsers)); err != nil {
		return fmt.Errorf("index %s: %w", CollectionUsers, err)
	}
	return nil
}
