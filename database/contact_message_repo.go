package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/models"
)

type contactMessageDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type MongoContactMessageRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoContactMessageRepo(coll *mongo.Collection) *MongoContactMessageRepo {
	return &MongoContactMessageRepo{coll: coll, now: time.Now}
}

// Add inserts a new contact message
func (r *MongoContactMessageRepo) Add(ctx context.Context, msg *models.ContactMessage) (id string, err error) {
	defer metrics.ObserveDB("insert_contact_message", mongoBackendName, time.Now(), &err)

	now := r.now().UTC().Truncate(time.Millisecond)
	doc := contactMessageDocument{
		ID:        primitive.NewObjectID(),
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", err
	}

	msg.ID = doc.ID.Hex()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	return msg.ID, nil
}
