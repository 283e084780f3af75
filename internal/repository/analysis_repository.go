package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"series_guide/db/mongodb"
	"series_guide/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IAnalysisRepository interface {
	GetPublishedAnalyses(skip int64, limit int64) ([]model.Analysis, error)
	GetAllAnalyses(skip int64, limit int64) ([]model.Analysis, error)
	GetAnalysisBySlug(slug string) (*model.Analysis, error)
	GetAnalysisById(id primitive.ObjectID) (*model.Analysis, error)
	GetAnalysesBySerie(serieSlug string, limit int64) ([]model.Analysis, error)
	SearchAnalyses(query string, limit int64) ([]model.Analysis, error)
	CreateAnalysis(analysis *model.Analysis) (primitive.ObjectID, error)
	UpdateAnalysis(analysis *model.Analysis) (bool, error)
	DeleteAnalysis(id primitive.ObjectID) (bool, error)
	IncrementCounter(key string, counter model.AnalysisCounter, delta int64) (bool, error)
	AnalysisExists(key string) (bool, error)
	CountAnalyses(publishedOnly bool) (int64, error)
}

type AnalysisRepository struct {
	mongodb *mongo.Database
}

func NewAnalysisRepository(mongodb *mongo.Database) *AnalysisRepository {
	return &AnalysisRepository{mongodb: mongodb}
}

//------------------------------------------
//------------------------------------------

func (r *AnalysisRepository) collection() *mongo.Collection {
	return r.mongodb.Collection(mongodb.AnalysisCollection)
}

// analysisKeyFilter accepts either an ObjectID hex string or a slug.
func analysisKeyFilter(key string) bson.M {
	if id, err := primitive.ObjectIDFromHex(key); err == nil {
		return bson.M{"_id": id}
	}
	return bson.M{"slug": key}
}

var publishedSort = bson.D{{"publishedAt", -1}, {"createdAt", -1}}

func (r *AnalysisRepository) find(filter bson.M, opts *options.FindOptions) ([]model.Analysis, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	result := make([]model.Analysis, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *AnalysisRepository) findOne(filter bson.M) (*model.Analysis, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result model.Analysis
	err := r.collection().FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *AnalysisRepository) GetPublishedAnalyses(skip int64, limit int64) ([]model.Analysis, error) {
	opts := options.Find().SetSort(publishedSort).SetSkip(skip).SetLimit(limit)
	return r.find(bson.M{"status": model.AnalysisPublished}, opts)
}

func (r *AnalysisRepository) GetAllAnalyses(skip int64, limit int64) ([]model.Analysis, error) {
	opts := options.Find().SetSort(bson.D{{"createdAt", -1}}).SetSkip(skip).SetLimit(limit)
	return r.find(bson.M{}, opts)
}

func (r *AnalysisRepository) GetAnalysisBySlug(slug string) (*model.Analysis, error) {
	return r.findOne(bson.M{"slug": slug})
}

func (r *AnalysisRepository) GetAnalysisById(id primitive.ObjectID) (*model.Analysis, error) {
	return r.findOne(bson.M{"_id": id})
}

// GetAnalysesBySerie matches analyses linked to the serie directly, through a
// tag, or by mentioning its name in the tags, title or content.
func (r *AnalysisRepository) GetAnalysesBySerie(serieSlug string, limit int64) ([]model.Analysis, error) {
	name := strings.ReplaceAll(serieSlug, "-", " ")
	re := primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}
	filter := bson.M{
		"status": model.AnalysisPublished,
		"$or": []bson.M{
			{"serieSlug": serieSlug},
			{"tags": bson.M{"$in": []string{serieSlug, name}}},
			{"tags": re},
			{"title": re},
			{"content": re},
		},
	}
	opts := options.Find().SetSort(publishedSort).SetLimit(limit)
	return r.find(filter, opts)
}

func (r *AnalysisRepository) SearchAnalyses(query string, limit int64) ([]model.Analysis, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(query)), Options: "i"}
	filter := bson.M{
		"status": model.AnalysisPublished,
		"$or": []bson.M{
			{"title": re},
			{"excerpt": re},
			{"content": re},
			{"tags": re},
		},
	}
	opts := options.Find().SetSort(publishedSort).SetLimit(limit)
	return r.find(filter, opts)
}

//------------------------------------------
//------------------------------------------

func (r *AnalysisRepository) CreateAnalysis(analysis *model.Analysis) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	analysis.Id = primitive.NewObjectID()
	if _, err := r.collection().InsertOne(ctx, analysis); err != nil {
		return primitive.NilObjectID, translateWriteError(err)
	}
	return analysis.Id, nil
}

// UpdateAnalysis writes the editable fields only; the counters belong to
// IncrementCounter.
func (r *AnalysisRepository) UpdateAnalysis(analysis *model.Analysis) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       analysis.Title,
		"slug":        analysis.Slug,
		"content":     analysis.Content,
		"excerpt":     analysis.Excerpt,
		"universe":    analysis.Universe,
		"tags":        analysis.Tags,
		"serieSlug":   analysis.SerieSlug,
		"author":      analysis.Author,
		"status":      analysis.Status,
		"readTime":    analysis.ReadTime,
		"publishedAt": analysis.PublishedAt,
		"updatedAt":   analysis.UpdatedAt,
	}}
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": analysis.Id}, update)
	if err != nil {
		return false, translateWriteError(err)
	}
	return res.MatchedCount > 0, nil
}

func (r *AnalysisRepository) DeleteAnalysis(id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// IncrementCounter applies $inc atomically. A negative delta only matches
// documents whose counter stays non-negative, so it reports false both for a
// missing document and for a counter already at zero.
func (r *AnalysisRepository) IncrementCounter(key string, counter model.AnalysisCounter, delta int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := analysisKeyFilter(key)
	if delta < 0 {
		filter[string(counter)] = bson.M{"$gte": -delta}
	}
	res, err := r.collection().UpdateOne(ctx, filter, bson.M{"$inc": bson.M{string(counter): delta}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *AnalysisRepository) AnalysisExists(key string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection().CountDocuments(ctx, analysisKeyFilter(key), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AnalysisRepository) CountAnalyses(publishedOnly bool) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if publishedOnly {
		filter["status"] = model.AnalysisPublished
	}
	return r.collection().CountDocuments(ctx, filter)
}
