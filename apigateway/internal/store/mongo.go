package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDateTime struct {
	StartTime string `bson:"startTime"`
	EndTime   string `bson:"endTime"`
	Date      string `bson:"date,omitempty"`
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	DateTime    mongoDateTime      `bson:"dateTime"`
	Priority    string             `bson:"priority"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// MongoStore persists tasks in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to uri and uses the tasks collection of database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(CollectionName),
	}, nil
}

func (s *MongoStore) Insert(ctx context.Context, t *domain.Task) error {
	doc := toMongo(t)
	doc.ID = primitive.NewObjectID()
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	t.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound(id)
	}
	var doc mongoTask
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	t := fromMongo(&doc)
	return &t, nil
}

func (s *MongoStore) Replace(ctx context.Context, t *domain.Task) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return notFound(t.ID)
	}
	doc := toMongo(t)
	doc.ID = oid
	res, err := s.collection.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound(t.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return notFound(id)
	}
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Find(ctx context.Context, q Query) ([]domain.Task, error) {
	cursor, err := s.collection.Find(ctx, mongoFilter(q))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoTask
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]domain.Task, 0, len(docs))
	for i := range docs {
		result = append(result, fromMongo(&docs[i]))
	}
	return result, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoFilter(q Query) bson.M {
	filter := bson.M{}
	if q.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Keyword), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	created := bson.M{}
	if !q.CreatedFrom.IsZero() {
		created["$gte"] = q.CreatedFrom
	}
	if !q.CreatedTo.IsZero() {
		created["$lte"] = q.CreatedTo
	}
	if len(created) > 0 {
		filter["createdAt"] = created
	}
	return filter
}

func toMongo(t *domain.Task) *mongoTask {
	return &mongoTask{
		Title:       t.Title,
		Description: t.Description,
		DateTime: mongoDateTime{
			StartTime: t.DateTime.StartTime,
			EndTime:   t.DateTime.EndTime,
			Date:      t.DateTime.Date,
		},
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func fromMongo(d *mongoTask) domain.Task {
	return domain.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		DateTime: domain.DateTime{
			StartTime: d.DateTime.StartTime,
			EndTime:   d.DateTime.EndTime,
			Date:      d.DateTime.Date,
		},
		Priority:  domain.Priority(d.Priority),
		Status:    domain.Status(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
