package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	mongoBackendName = "mongo"

	// Collection names match what the site's earlier ODM created, so existing
	// data keeps working.
	contactMessagesCollection = "contactmessages"
	projectsCollection        = "projects"
)

// MongoBackend holds the client and one repository per collection.
type MongoBackend struct {
	client             *mongo.Client
	db                 *mongo.Database
	contactMessageRepo *MongoContactMessageRepo
	projectRepo        *MongoProjectRepo
}

func NewMongoBackend(client *mongo.Client, db *mongo.Database) *MongoBackend {
	return &MongoBackend{
		client:             client,
		db:                 db,
		contactMessageRepo: NewMongoContactMessageRepo(db.Collection(contactMessagesCollection)),
		projectRepo:        NewMongoProjectRepo(db.Collection(projectsCollection)),
	}
}

// ConnectMongo returns a Connector that opens a client, checks the primary is
// reachable and selects dbName.
func ConnectMongo(dbName string) Connector {
	return func(ctx context.Context, uri string) (Backend, error) {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo ping: %w", err)
		}

		return NewMongoBackend(client, client.Database(dbName)), nil
	}
}

func (b *MongoBackend) ContactMessages() ContactMessageRepository {
	return b.contactMessageRepo
}

func (b *MongoBackend) Projects() ProjectRepository {
	return b.projectRepo
}

func (b *MongoBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx, readpref.Primary())
}

func (b *MongoBackend) Migrate(ctx context.Context) error {
	byCreatedAt := mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}

	for _, name := range []string{contactMessagesCollection, projectsCollection} {
		if _, err := b.db.Collection(name).Indexes().CreateOne(ctx, byCreatedAt); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return nil
}

func (b *MongoBackend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}
