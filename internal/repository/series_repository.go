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

type ISeriesRepository interface {
	GetSeries(filter model.SerieFilter, skip int64, limit int64) ([]model.Serie, error)
	CountSeries(filter model.SerieFilter) (int64, error)
	GetSerieBySlug(slug string) (*model.Serie, error)
	GetSerieById(id primitive.ObjectID) (*model.Serie, error)
	CreateSerie(serie *model.Serie) (primitive.ObjectID, error)
	UpdateSerie(serie *model.Serie) (bool, error)
	DeleteSerie(id primitive.ObjectID) (bool, error)
}

type SeriesRepository struct {
	mongodb *mongo.Database
}

func NewSeriesRepository(mongodb *mongo.Database) *SeriesRepository {
	return &SeriesRepository{mongodb: mongodb}
}

//------------------------------------------
//------------------------------------------

func (r *SeriesRepository) collection() *mongo.Collection {
	return r.mongodb.Collection(mongodb.SeriesCollection)
}

// seriesFilterQuery builds the catalog filter. The lgbtq filter matches
// either the boolean flag or any genre tag of the family, since older
// documents only carry one of the two.
func seriesFilterQuery(filter model.SerieFilter) bson.M {
	conditions := make([]bson.M, 0)
	if filter.Genre != "" {
		conditions = append(conditions, bson.M{"genre": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(filter.Genre) + "$",
			Options: "i",
		}})
	}
	if filter.Platform != "" {
		conditions = append(conditions, bson.M{"platforms.name": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(filter.Platform) + "$",
			Options: "i",
		}})
	}
	if filter.Lgbtq {
		conditions = append(conditions, bson.M{"$or": []bson.M{
			{"lgbtqContent": true},
			{"genre": primitive.Regex{Pattern: model.LgbtqGenreKeyword, Options: "i"}},
		}})
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		conditions = append(conditions, bson.M{"$or": []bson.M{
			{"title": re},
			{"description": re},
			{"network": re},
		}})
	}

	switch len(conditions) {
	case 0:
		return bson.M{}
	case 1:
		return conditions[0]
	default:
		return bson.M{"$and": conditions}
	}
}

func (r *SeriesRepository) GetSeries(filter model.SerieFilter, skip int64, limit int64) ([]model.Serie, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{"title", 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.collection().Find(ctx, seriesFilterQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	result := make([]model.Serie, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SeriesRepository) CountSeries(filter model.SerieFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.collection().CountDocuments(ctx, seriesFilterQuery(filter))
}

func (r *SeriesRepository) GetSerieBySlug(slug string) (*model.Serie, error) {
	return r.findOne(bson.M{"slug": slug})
}

func (r *SeriesRepository) GetSerieById(id primitive.ObjectID) (*model.Serie, error) {
	return r.findOne(bson.M{"_id": id})
}

func (r *SeriesRepository) findOne(filter bson.M) (*model.Serie, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result model.Serie
	err := r.collection().FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

//------------------------------------------
//------------------------------------------

func (r *SeriesRepository) CreateSerie(serie *model.Serie) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serie.Id = primitive.NewObjectID()
	if _, err := r.collection().InsertOne(ctx, serie); err != nil {
		return primitive.NilObjectID, translateWriteError(err)
	}
	return serie.Id, nil
}

// UpdateSerie replaces the stored document with the given field set,
// keeping the original creation time.
func (r *SeriesRepository) UpdateSerie(serie *model.Serie) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":         serie.Title,
		"slug":          serie.Slug,
		"description":   serie.Description,
		"genre":         serie.Genre,
		"network":       serie.Network,
		"startYear":     serie.StartYear,
		"endYear":       serie.EndYear,
		"totalSeasons":  serie.TotalSeasons,
		"totalEpisodes": serie.TotalEpisodes,
		"status":        serie.Status,
		"imdbId":        serie.ImdbId,
		"imdbRating":    serie.ImdbRating,
		"posterUrl":     serie.PosterUrl,
		"backdropUrl":   serie.BackdropUrl,
		"trailerUrl":    serie.TrailerUrl,
		"lgbtqContent":  serie.LgbtqContent,
		"platforms":     serie.Platforms,
		"updatedAt":     serie.UpdatedAt,
	}}
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": serie.Id}, update)
	if err != nil {
		return false, translateWriteError(err)
	}
	return res.MatchedCount > 0, nil
}

func (r *SeriesRepository) DeleteSerie(id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
