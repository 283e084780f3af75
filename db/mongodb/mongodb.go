package mongodb

import (
	"context"
	"time"

	"series_guide/configs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection    = "users"
	SeriesCollection   = "series"
	AnalysisCollection = "analysis"
	RatingsCollection  = "ratings"
	CommentsCollection = "comments"
	ChatCollection     = "chat_messages"
	BlogCollection     = "blog_posts"
	ConfigsCollection  = "configs"
)

// MongoDatabase is created once at startup and handed to every repository.
type MongoDatabase struct {
	Db     *mongo.Database
	client *mongo.Client
}

func NewDatabase() (*MongoDatabase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	opts := options.Client().
		ApplyURI(configs.GetConfigs().MongodbDatabaseUrl).
		SetMaxPoolSize(100)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &MongoDatabase{
		client: client,
		Db:     client.Database(configs.GetConfigs().MongodbDatabaseName),
	}, nil
}

func (d *MongoDatabase) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

func (d *MongoDatabase) GetDB() *mongo.Database {
	return d.Db
}

//------------------------------------------
//------------------------------------------

// EnsureIndexes creates the indexes the data layer relies on. The unique ones
// are what keep concurrent inserts from producing duplicates.
func (d *MongoDatabase) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{"username", 1}}, Options: unique},
			{Keys: bson.D{{"email", 1}}, Options: unique},
		},
		SeriesCollection: {
			{Keys: bson.D{{"slug", 1}}, Options: unique},
			{Keys: bson.D{{"startYear", -1}}},
			{Keys: bson.D{{"lgbtqContent", 1}}},
		},
		AnalysisCollection: {
			{Keys: bson.D{{"slug", 1}}, Options: unique},
			{Keys: bson.D{{"status", 1}, {"publishedAt", -1}}},
			{Keys: bson.D{{"serieSlug", 1}}},
		},
		RatingsCollection: {
			{Keys: bson.D{{"userId", 1}, {"serieSlug", 1}}, Options: unique},
			{Keys: bson.D{{"serieSlug", 1}, {"createdAt", -1}}},
		},
		CommentsCollection: {
			{Keys: bson.D{{"serieId", 1}, {"createdAt", -1}}},
			{Keys: bson.D{{"parentId", 1}}},
		},
		ChatCollection: {
			{Keys: bson.D{{"createdAt", -1}}},
		},
		BlogCollection: {
			{Keys: bson.D{{"slug", 1}}, Options: unique},
			{Keys: bson.D{{"published", 1}, {"publishedAt", -1}}},
		},
	}

	// index left over from when ratings were keyed by serie id
	_, _ = d.Db.Collection(RatingsCollection).Indexes().DropOne(ctx, "userId_1_serieId_1")

	for collection, models := range indexes {
		if _, err := d.Db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
