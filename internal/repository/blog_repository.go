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

type IBlogRepository interface {
	GetPosts(category model.BlogCategory, publishedOnly bool, skip int64, limit int64) ([]model.BlogPost, error)
	CountPosts(category model.BlogCategory, publishedOnly bool) (int64, error)
	GetPostBySlug(slug string, publishedOnly bool) (*model.BlogPost, error)
	GetPostById(id primitive.ObjectID) (*model.BlogPost, error)
	CreatePost(post *model.BlogPost) (primitive.ObjectID, error)
	UpdatePost(post *model.BlogPost) (bool, error)
	DeletePost(id primitive.ObjectID) (bool, error)
}

type BlogRepository struct {
	mongodb *mongo.Database
}

func NewBlogRepository(mongodb *mongo.Database) *BlogRepository {
	return &BlogRepository{mongodb: mongodb}
}

//------------------------------------------
//------------------------------------------

func (r *BlogRepository) collection() *mongo.Collection {
	return r.mongodb.Collection(mongodb.BlogCollection)
}

func blogFilter(category model.BlogCategory, publishedOnly bool) bson.M {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if publishedOnly {
		filter["published"] = true
	}
	return filter
}

func (r *BlogRepository) GetPosts(category model.BlogCategory, publishedOnly bool, skip int64, limit int64) ([]model.BlogPost, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sort := bson.D{{"createdAt", -1}}
	if publishedOnly {
		sort = bson.D{{"publishedAt", -1}, {"createdAt", -1}}
	}
	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)
	cursor, err := r.collection().Find(ctx, blogFilter(category, publishedOnly), opts)
	if err != nil {
		return nil, err
	}
	result := make([]model.BlogPost, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *BlogRepository) CountPosts(category model.BlogCategory, publishedOnly bool) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.collection().CountDocuments(ctx, blogFilter(category, publishedOnly))
}

func (r *BlogRepository) GetPostBySlug(slug string, publishedOnly bool) (*model.BlogPost, error) {
	filter := bson.M{"slug": slug}
	if publishedOnly {
		filter["published"] = true
	}
	return r.findOne(filter)
}

func (r *BlogRepository) GetPostById(id primitive.ObjectID) (*model.BlogPost, error) {
	return r.findOne(bson.M{"_id": id})
}

func (r *BlogRepository) findOne(filter bson.M) (*model.BlogPost, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result model.BlogPost
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

func (r *BlogRepository) CreatePost(post *model.BlogPost) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	post.Id = primitive.NewObjectID()
	if _, err := r.collection().InsertOne(ctx, post); err != nil {
		return primitive.NilObjectID, translateWriteError(err)
	}
	return post.Id, nil
}

func (r *BlogRepository) UpdatePost(post *model.BlogPost) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":         post.Title,
		"slug":          post.Slug,
		"excerpt":       post.Excerpt,
		"content":       post.Content,
		"author":        post.Author,
		"category":      post.Category,
		"tags":          post.Tags,
		"featuredImage": post.FeaturedImage,
		"published":     post.Published,
		"publishedAt":   post.PublishedAt,
		"updatedAt":     post.UpdatedAt,
	}}
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": post.Id}, update)
	if err != nil {
		return false, translateWriteError(err)
	}
	return res.MatchedCount > 0, nil
}

func (r *BlogRepository) DeletePost(id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
