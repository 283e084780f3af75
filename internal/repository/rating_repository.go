package repository

import (
	"context"
	"errors"
	"time"

	"series_guide/db/mongodb"
	"series_guide/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IRatingRepository interface {
	UpsertRating(userId primitive.ObjectID, serieSlug string, score int, review string) (*model.Rating, error)
	GetUserRating(userId primitive.ObjectID, serieSlug string) (*model.Rating, error)
	GetUserRatingsForSeries(userId primitive.ObjectID, serieSlugs []string) ([]model.Rating, error)
	GetRatingsByUser(userId primitive.ObjectID, skip int64, limit int64) ([]model.Rating, error)
	GetSerieRatings(serieSlug string, skip int64, limit int64) ([]model.RatingWithUser, error)
	CountSerieRatings(serieSlug string) (int64, error)
	CountRatings() (int64, error)
	GetScoreCounts(serieSlugs []string) ([]model.ScoreCount, error)
	DeleteRating(userId primitive.ObjectID, serieSlug string) (bool, error)
	DeleteRatingsByUser(userId primitive.ObjectID) error
	GetTopRatedSeries(limit int64, minRatings int64) ([]model.TopRatedSerie, error)
	GetTopReviewers(limit int64) ([]model.TopReviewer, error)
}

type RatingRepository struct {
	mongodb *mongo.Database
}

func NewRatingRepository(mongodb *mongo.Database) *RatingRepository {
	return &RatingRepository{mongodb: mongodb}
}

//------------------------------------------
//------------------------------------------

func (r *RatingRepository) collection() *mongo.Collection {
	return r.mongodb.Collection(mongodb.RatingsCollection)
}

// UpsertRating keys the write on (userId, serieSlug). Two concurrent first
// ratings can both miss and both insert; the unique index rejects one of them,
// and retrying the upsert then matches the surviving document.
func (r *RatingRepository) UpsertRating(userId primitive.ObjectID, serieSlug string, score int, review string) (*model.Rating, error) {
	now := time.Now().UTC()
	filter := bson.M{"userId": userId, "serieSlug": serieSlug}
	update := bson.M{
		"$set": bson.M{
			"rating":    score,
			"review":    review,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"userId":    userId,
			"serieSlug": serieSlug,
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var result model.Rating
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = r.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&result)
		cancel()
		if err == nil || !mongodb.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *RatingRepository) GetUserRating(userId primitive.ObjectID, serieSlug string) (*model.Rating, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result model.Rating
	err := r.collection().FindOne(ctx, bson.M{"userId": userId, "serieSlug": serieSlug}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *RatingRepository) GetUserRatingsForSeries(userId primitive.ObjectID, serieSlugs []string) ([]model.Rating, error) {
	return r.find(bson.M{"userId": userId, "serieSlug": bson.M{"$in": serieSlugs}}, options.Find())
}

func (r *RatingRepository) GetRatingsByUser(userId primitive.ObjectID, skip int64, limit int64) ([]model.Rating, error) {
	opts := options.Find().SetSort(bson.D{{"updatedAt", -1}}).SetSkip(skip).SetLimit(limit)
	return r.find(bson.M{"userId": userId}, opts)
}

func (r *RatingRepository) find(filter bson.M, opts *options.FindOptions) ([]model.Rating, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	result := make([]model.Rating, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *RatingRepository) GetSerieRatings(serieSlug string, skip int64, limit int64) ([]model.RatingWithUser, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{"$match", bson.M{"serieSlug": serieSlug}}},
		{{"$sort", bson.D{{"createdAt", -1}}}},
		{{"$skip", skip}},
		{{"$limit", limit}},
		{{"$lookup", bson.M{
			"from":         mongodb.UsersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{"$unwind", bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
		{{"$project", bson.M{
			"userId":        1,
			"serieSlug":     1,
			"rating":        1,
			"review":        1,
			"createdAt":     1,
			"updatedAt":     1,
			"user._id":      1,
			"user.username": 1,
		}}},
	}
	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	result := make([]model.RatingWithUser, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *RatingRepository) CountSerieRatings(serieSlug string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.collection().CountDocuments(ctx, bson.M{"serieSlug": serieSlug})
}

func (r *RatingRepository) CountRatings() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.collection().EstimatedDocumentCount(ctx)
}

// GetScoreCounts returns one bucket per (serieSlug, score) pair for the given
// series, in a single round trip.
func (r *RatingRepository) GetScoreCounts(serieSlugs []string) ([]model.ScoreCount, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{"$match", bson.M{"serieSlug": bson.M{"$in": serieSlugs}}}},
		{{"$group", bson.M{
			"_id":   bson.M{"serieSlug": "$serieSlug", "score": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
		{{"$project", bson.M{
			"_id":       0,
			"serieSlug": "$_id.serieSlug",
			"score":     "$_id.score",
			"count":     1,
		}}},
	}
	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	result := make([]model.ScoreCount, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

//------------------------------------------
//------------------------------------------

func (r *RatingRepository) DeleteRating(userId primitive.ObjectID, serieSlug string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().DeleteOne(ctx, bson.M{"userId": userId, "serieSlug": serieSlug})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *RatingRepository) DeleteRatingsByUser(userId primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection().DeleteMany(ctx, bson.M{"userId": userId})
	return err
}

//------------------------------------------
//------------------------------------------

func (r *RatingRepository) GetTopRatedSeries(limit int64, minRatings int64) ([]model.TopRatedSerie, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{"$group", bson.M{
			"_id":           "$serieSlug",
			"averageRating": bson.M{"$avg": "$rating"},
			"totalRatings":  bson.M{"$sum": 1},
		}}},
		{{"$match", bson.M{"totalRatings": bson.M{"$gte": minRatings}}}},
		{{"$sort", bson.D{{"averageRating", -1}, {"totalRatings", -1}}}},
		{{"$limit", limit}},
	}
	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	result := make([]model.TopRatedSerie, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	for i := range result {
		result[i].AverageRating = model.RoundOneDecimal(result[i].AverageRating)
	}
	return result, nil
}

func (r *RatingRepository) GetTopReviewers(limit int64) ([]model.TopReviewer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{"$group", bson.M{
			"_id":           "$userId",
			"totalRatings":  bson.M{"$sum": 1},
			"averageRating": bson.M{"$avg": "$rating"},
		}}},
		{{"$sort", bson.D{{"totalRatings", -1}}}},
		{{"$limit", limit}},
		{{"$lookup", bson.M{
			"from":         mongodb.UsersCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{"$unwind", "$user"}},
		{{"$project", bson.M{
			"username":      "$user.username",
			"totalRatings":  1,
			"averageRating": 1,
		}}},
	}
	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	result := make([]model.TopReviewer, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	for i := range result {
		result[i].AverageRating = model.RoundOneDecimal(result[i].AverageRating)
	}
	return result, nil
}
