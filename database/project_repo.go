package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/models"
)

type projectDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Tags        []string           `bson:"tags"`
	Image       string             `bson:"image"`
	GithubURL   string             `bson:"githubUrl"`
	LiveURL     string             `bson:"liveUrl"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d projectDocument) toModel() models.Project {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Project{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Tags:        tags,
		Image:       d.Image,
		GithubURL:   d.GithubURL,
		LiveURL:     d.LiveURL,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type MongoProjectRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoProjectRepo(coll *mongo.Collection) *MongoProjectRepo {
	return &MongoProjectRepo{coll: coll, now: time.Now}
}

// FindAll returns all projects, newest first. ObjectIDs start with their
// creation second, so sorting on _id follows insertion order.
func (r *MongoProjectRepo) FindAll(ctx context.Context) (projects []models.Project, err error) {
	defer metrics.ObserveDB("find_projects", mongoBackendName, time.Now(), &err)

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetProjection(bson.D{{Key: "__v", Value: 0}})

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []projectDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	projects = make([]models.Project, 0, len(docs))
	for _, doc := range docs {
		projects = append(projects, doc.toModel())
	}
	return projects, nil
}

// Add inserts a new project
func (r *MongoProjectRepo) Add(ctx context.Context, project *models.Project) (id string, err error) {
	defer metrics.ObserveDB("insert_project", mongoBackendName, time.Now(), &err)

	now := r.now().UTC().Truncate(time.Millisecond)
	tags := project.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := projectDocument{
		ID:          primitive.NewObjectID(),
		Title:       project.Title,
		Description: project.Description,
		Tags:        tags,
		Image:       project.Image,
		GithubURL:   project.GithubURL,
		LiveURL:     project.LiveURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", err
	}

	project.ID = doc.ID.Hex()
	project.Tags = tags
	project.CreatedAt = now
	project.UpdatedAt = now
	return project.ID, nil
}

// Update sets the patched fields and updatedAt. An id that is not a valid
// ObjectID cannot match anything and is reported as not found.
func (r *MongoProjectRepo) Update(ctx context.Context, id string, patch models.ProjectPatch) (err error) {
	defer metrics.ObserveDB("update_project", mongoBackendName, time.Now(), &err)

	if patch.IsEmpty() {
		return errs.NewEmptyUpdateError()
	}

	objectID, convErr := primitive.ObjectIDFromHex(id)
	if convErr != nil {
		return errs.NewNotFound("Project")
	}

	set := bson.M{}
	for field, value := range patch.Fields() {
		set[field] = value
	}
	set["updatedAt"] = r.now().UTC().Truncate(time.Millisecond)

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errs.NewNotFound("Project")
	}
	return nil
}
