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

type IChatRepository interface {
	CreateMessage(message *model.ChatMessage) (primitive.ObjectID, error)
	GetMessageById(id primitive.ObjectID) (*model.ChatMessage, error)
	GetLatestMessages(limit int64, before *time.Time) ([]model.ChatMessage, error)
	UpdateMessageText(id primitive.ObjectID, text string) (bool, error)
	DeleteMessage(id primitive.ObjectID) (bool, error)
	DeleteMessagesByUser(userId primitive.ObjectID) error
	CountMessages(since *time.Time) (int64, error)
	CountActiveUsers(since time.Time) (int64, error)
	TrimMessages(keep int64) (int64, error)
}

type ChatRepository struct {
	mongodb *mongo.Database
}

func NewChatRepository(mongodb *mongo.Database) *ChatRepository {
	return &ChatRepository{mongodb: mongodb}
}

//------------------------------------------
//------------------------------------------

func (r *ChatRepository) collection() *mongo.Collection {
	return r.mongodb.Collection(mongodb.ChatCollection)
}

func (r *ChatRepository) CreateMessage(message *model.ChatMessage) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	message.Id = primitive.NewObjectID()
	if _, err := r.collection().InsertOne(ctx, message); err != nil {
		return primitive.NilObjectID, err
	}
	return message.Id, nil
}

func (r *ChatRepository) GetMessageById(id primitive.ObjectID) (*model.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result model.ChatMessage
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// GetLatestMessages returns the newest messages first.
func (r *ChatRepository) GetLatestMessages(limit int64, before *time.Time) ([]model.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if before != nil {
		filter["createdAt"] = bson.M{"$lt": *before}
	}
	opts := options.Find().SetSort(bson.D{{"createdAt", -1}, {"_id", -1}}).SetLimit(limit)
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	result := make([]model.ChatMessage, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ChatRepository) UpdateMessageText(id primitive.ObjectID, text string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"message": text, "isEdited": true, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *ChatRepository) DeleteMessage(id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *ChatRepository) DeleteMessagesByUser(userId primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection().DeleteMany(ctx, bson.M{"userId": userId, "type": model.ChatMessageNormal})
	return err
}

//------------------------------------------
//------------------------------------------

func (r *ChatRepository) CountMessages(since *time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if since == nil {
		return r.collection().EstimatedDocumentCount(ctx)
	}
	return r.collection().CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": *since}})
}

func (r *ChatRepository) CountActiveUsers(since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIds, err := r.collection().Distinct(ctx, "userId", bson.M{
		"createdAt": bson.M{"$gte": since},
		"type":      model.ChatMessageNormal,
	})
	if err != nil {
		return 0, err
	}
	return int64(len(userIds)), nil
}

// TrimMessages keeps the newest `keep` messages and deletes the rest,
// returning how many were removed.
func (r *ChatRepository) TrimMessages(keep int64) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{"createdAt", -1}, {"_id", -1}}).
		SetSkip(keep).
		SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return 0, err
	}
	var excess []struct {
		Id primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &excess); err != nil {
		return 0, err
	}
	if len(excess) == 0 {
		return 0, nil
	}

	ids := make([]primitive.ObjectID, 0, len(excess))
	for _, m := range excess {
		ids = append(ids, m.Id)
	}
	res, err := r.collection().DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
