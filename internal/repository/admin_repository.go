package repository

import (
	"context"
	"time"

	"series_guide/db/mongodb"
	"series_guide/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type IAdminRepository interface {
	GetDashboardCounts() (*model.DashboardCounts, error)
}

type AdminRepository struct {
	mongodb *mongo.Database
}

func NewAdminRepository(mongodb *mongo.Database) *AdminRepository {
	return &AdminRepository{mongodb: mongodb}
}

//------------------------------------------
//------------------------------------------

func (r *AdminRepository) GetDashboardCounts() (*model.DashboardCounts, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	result := model.DashboardCounts{}
	if err := r.countAll(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *AdminRepository) countAll(ctx context.Context, result *model.DashboardCounts) error {
	counts := []struct {
		collection string
		filter     bson.M
		target     *int64
	}{
		{mongodb.UsersCollection, bson.M{}, &result.Users},
		{mongodb.UsersCollection, bson.M{"isActive": true}, &result.ActiveUsers},
		{mongodb.UsersCollection, bson.M{"role": model.AdminRole}, &result.Admins},
		{mongodb.SeriesCollection, bson.M{}, &result.Series},
		{mongodb.AnalysisCollection, bson.M{}, &result.Analyses},
		{mongodb.AnalysisCollection, bson.M{"status": model.AnalysisPublished}, &result.PublishedAnalyses},
		{mongodb.RatingsCollection, bson.M{}, &result.Ratings},
		{mongodb.CommentsCollection, bson.M{}, &result.Comments},
		{mongodb.BlogCollection, bson.M{}, &result.BlogPosts},
		{mongodb.BlogCollection, bson.M{"published": true}, &result.PublishedBlogPosts},
	}
	for _, c := range counts {
		n, err := r.mongodb.Collection(c.collection).CountDocuments(ctx, c.filter)
		if err != nil {
			return err
		}
		*c.target = n
	}
	return nil
}
