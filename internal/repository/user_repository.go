package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"series_guide/db/mongodb"
	"series_guide/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IUserRepository interface {
	CreateUser(user *model.User) (primitive.ObjectID, error)
	GetUserById(userId primitive.ObjectID) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByIdentifier(identifier string) (*model.User, error)
	GetUserSummaries(userIds []primitive.ObjectID) ([]model.UserSummary, error)
	UpdateUserPassword(userId primitive.ObjectID, passwordHash string) error
	UpdateLastLogin(userId primitive.ObjectID) error
	ToggleUserSet(userId primitive.ObjectID, field model.UserSetField, item string, action model.ToggleAction) (bool, error)
	ListUsers(skip int64, limit int64) ([]model.User, error)
	CountUsers(role model.UserRole, activeOnly bool) (int64, error)
	UpdateUserRole(userId primitive.ObjectID, role model.UserRole) (bool, error)
	UpdateUserActive(userId primitive.ObjectID, isActive bool) (bool, error)
	DeleteUser(userId primitive.ObjectID) (bool, error)
}

type UserRepository struct {
	mongodb *mongo.Database
}

func NewUserRepository(mongodb *mongo.Database) *UserRepository {
	return &UserRepository{mongodb: mongodb}
}

//------------------------------------------
//------------------------------------------

func (r *UserRepository) collection() *mongo.Collection {
	return r.mongodb.Collection(mongodb.UsersCollection)
}

func (r *UserRepository) CreateUser(user *model.User) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user.Id = primitive.NewObjectID()
	_, err := r.collection().InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, translateWriteError(err)
	}
	return user.Id, nil
}

func (r *UserRepository) GetUserById(userId primitive.ObjectID) (*model.User, error) {
	return r.findOne(bson.M{"_id": userId})
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	return r.findOne(bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepository) GetUserByIdentifier(identifier string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	return r.findOne(bson.M{
		"$or": []bson.M{
			{"username": identifier},
			{"email": strings.ToLower(identifier)},
		},
	})
}

func (r *UserRepository) findOne(filter bson.M) (*model.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result model.User
	err := r.collection().FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *UserRepository) GetUserSummaries(userIds []primitive.ObjectID) ([]model.UserSummary, error) {
	result := make([]model.UserSummary, 0)
	if len(userIds) == 0 {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"username": 1})
	cursor, err := r.collection().Find(ctx, bson.M{"_id": bson.M{"$in": userIds}}, opts)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

//------------------------------------------
//------------------------------------------

func (r *UserRepository) UpdateUserPassword(userId primitive.ObjectID, passwordHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": userId},
		bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()}},
	)
	return err
}

func (r *UserRepository) UpdateLastLogin(userId primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": userId},
		bson.M{"$set": bson.M{"lastLogin": time.Now().UTC()}},
	)
	return err
}

// ToggleUserSet adds with $addToSet or removes with $pull, so the stored
// array never holds duplicates and removing a missing item changes nothing.
// The returned bool reports whether the user exists.
func (r *UserRepository) ToggleUserSet(userId primitive.ObjectID, field model.UserSetField, item string, action model.ToggleAction) (bool, error) {
	operator := "$addToSet"
	if action == model.ToggleRemove {
		operator = "$pull"
	}
	update := bson.M{
		operator: bson.M{string(field): item},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": userId}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

//------------------------------------------
//------------------------------------------

func (r *UserRepository) ListUsers(skip int64, limit int64) ([]model.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{"createdAt", -1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(bson.M{"password": 0})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	result := make([]model.User, 0)
	if err = cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *UserRepository) CountUsers(role model.UserRole, activeOnly bool) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	if activeOnly {
		filter["isActive"] = true
	}
	return r.collection().CountDocuments(ctx, filter)
}

func (r *UserRepository) UpdateUserRole(userId primitive.ObjectID, role model.UserRole) (bool, error) {
	return r.updateFields(userId, bson.M{"role": role})
}

func (r *UserRepository) UpdateUserActive(userId primitive.ObjectID, isActive bool) (bool, error) {
	return r.updateFields(userId, bson.M{"isActive": isActive})
}

func (r *UserRepository) updateFields(userId primitive.ObjectID, fields bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now().UTC()
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": userId}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *UserRepository) DeleteUser(userId primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": userId})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
