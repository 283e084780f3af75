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

type ICommentRepository interface {
	CreateComment(comment *model.Comment) (primitive.ObjectID, error)
	GetCommentById(id primitive.ObjectID) (*model.Comment, error)
	GetTopLevelComments(serieId primitive.ObjectID, skip int64, limit int64) ([]model.Comment, error)
	GetReplies(parentIds []primitive.ObjectID) ([]model.Comment, error)
	GetCommentsByUser(userId primitive.ObjectID, skip int64, limit int64) ([]model.Comment, error)
	CountTopLevelComments(serieId primitive.ObjectID) (int64, error)
	CountComments(serieId *primitive.ObjectID) (int64, error)
	ToggleCommentLike(id primitive.ObjectID, userId primitive.ObjectID) (liked bool, found bool, err error)
	UpdateCommentContent(id primitive.ObjectID, content string) (bool, error)
	DeleteCommentWithReplies(id primitive.ObjectID) (int64, error)
	DeleteCommentsByUser(userId primitive.ObjectID) error
}

type CommentRepository struct {
	mongodb *mongo.Database
}

func NewCommentRepository(mongodb *mongo.Database) *CommentRepository {
	return &CommentRepository{mongodb: mongodb}
}

//------------------------------------------
//------------------------------------------

func (r *CommentRepository) collection() *mongo.Collection {
	return r.mongodb.Collection(mongodb.CommentsCollection)
}

func (r *CommentRepository) find(filter bson.M, opts *options.FindOptions) ([]model.Comment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	result := make([]model.Comment, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *CommentRepository) CreateComment(comment *model.Comment) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	comment.Id = primitive.NewObjectID()
	if comment.Likes == nil {
		comment.Likes = []primitive.ObjectID{}
	}
	if _, err := r.collection().InsertOne(ctx, comment); err != nil {
		return primitive.NilObjectID, err
	}
	return comment.Id, nil
}

func (r *CommentRepository) GetCommentById(id primitive.ObjectID) (*model.Comment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result model.Comment
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// GetTopLevelComments matches both a null and a missing parentId.
func (r *CommentRepository) GetTopLevelComments(serieId primitive.ObjectID, skip int64, limit int64) ([]model.Comment, error) {
	opts := options.Find().SetSort(bson.D{{"createdAt", -1}}).SetSkip(skip).SetLimit(limit)
	return r.find(bson.M{"serieId": serieId, "parentId": nil}, opts)
}

func (r *CommentRepository) GetReplies(parentIds []primitive.ObjectID) ([]model.Comment, error) {
	if len(parentIds) == 0 {
		return []model.Comment{}, nil
	}
	opts := options.Find().SetSort(bson.D{{"createdAt", 1}})
	return r.find(bson.M{"parentId": bson.M{"$in": parentIds}}, opts)
}

func (r *CommentRepository) GetCommentsByUser(userId primitive.ObjectID, skip int64, limit int64) ([]model.Comment, error) {
	opts := options.Find().SetSort(bson.D{{"createdAt", -1}}).SetSkip(skip).SetLimit(limit)
	return r.find(bson.M{"userId": userId}, opts)
}

func (r *CommentRepository) CountTopLevelComments(serieId primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.collection().CountDocuments(ctx, bson.M{"serieId": serieId, "parentId": nil})
}

func (r *CommentRepository) CountComments(serieId *primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if serieId != nil {
		filter["serieId"] = *serieId
	}
	return r.collection().CountDocuments(ctx, filter)
}

//------------------------------------------
//------------------------------------------

// ToggleCommentLike first tries to add the like guarded by $ne, and falls
// back to removing it. Each step is a single atomic update.
func (r *CommentRepository) ToggleCommentLike(id primitive.ObjectID, userId primitive.ObjectID) (bool, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": id, "likes": bson.M{"$ne": userId}},
		bson.M{"$addToSet": bson.M{"likes": userId}},
	)
	if err != nil {
		return false, false, err
	}
	if res.MatchedCount > 0 {
		return true, true, nil
	}

	res, err = r.collection().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"likes": userId}},
	)
	if err != nil {
		return false, false, err
	}
	return false, res.MatchedCount > 0, nil
}

func (r *CommentRepository) UpdateCommentContent(id primitive.ObjectID, content string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DeleteCommentWithReplies removes the comment and its direct replies.
func (r *CommentRepository) DeleteCommentWithReplies(id primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().DeleteMany(ctx, bson.M{
		"$or": []bson.M{
			{"_id": id},
			{"parentId": id},
		},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteCommentsByUser removes every comment of the user together with the
// replies left under their top-level comments.
func (r *CommentRepository) DeleteCommentsByUser(userId primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection().Find(ctx, bson.M{"userId": userId, "parentId": nil}, opts)
	if err != nil {
		return err
	}
	var owned []struct {
		Id primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &owned); err != nil {
		return err
	}
	parentIds := make([]primitive.ObjectID, 0, len(owned))
	for _, c := range owned {
		parentIds = append(parentIds, c.Id)
	}

	_, err = r.collection().DeleteMany(ctx, bson.M{
		"$or": []bson.M{
			{"userId": userId},
			{"parentId": bson.M{"$in": parentIds}},
		},
	})
	return err
}
