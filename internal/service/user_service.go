package service

import (
	"series_guide/internal/repository"
	"series_guide/model"
	errorHandler "series_guide/pkg/error"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IUserService interface {
	GetProfile(userId primitive.ObjectID) (*model.UserProfileRes, error)
	ToggleSet(userId primitive.ObjectID, field model.UserSetField, item string, action model.ToggleAction) error
	ListUsers(page int64, limit int64) (*model.PaginatedResult[model.UserProfileRes], error)
	SetRole(actorId primitive.ObjectID, userId primitive.ObjectID, role model.UserRole) error
	SetActive(actorId primitive.ObjectID, userId primitive.ObjectID, isActive bool) error
	DeleteUser(actorId primitive.ObjectID, userId primitive.ObjectID) error
}

type UserService struct {
	userRepo    repository.IUserRepository
	ratingRepo  repository.IRatingRepository
	commentRepo repository.ICommentRepository
	chatRepo    repository.IChatRepository
	cache       ICacheService
}

func NewUserService(userRepo repository.IUserRepository, ratingRepo repository.IRatingRepository,
	commentRepo repository.ICommentRepository, chatRepo repository.IChatRepository, cache ICacheService) *UserService {
	return &UserService{
		userRepo:    userRepo,
		ratingRepo:  ratingRepo,
		commentRepo: commentRepo,
		chatRepo:    chatRepo,
		cache:       cache,
	}
}

//------------------------------------------
//------------------------------------------

func (s *UserService) GetProfile(userId primitive.ObjectID) (*model.UserProfileRes, error) {
	user, err := s.userRepo.GetUserById(userId)
	if err != nil {
		errorHandler.SaveError("error on getting user profile", err)
		return nil, ErrServer
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.ToProfile(), nil
}

// ToggleSet adds or removes one item of a user set. Adding twice and removing
// an absent item both succeed without changing the set.
func (s *UserService) ToggleSet(userId primitive.ObjectID, field model.UserSetField, item string, action model.ToggleAction) error {
	if !field.IsValid() || !action.IsValid() {
		return ErrInvalidAction
	}
	if item == "" {
		return newError(ErrInvalidInput, "Missing item")
	}
	found, err := s.userRepo.ToggleUserSet(userId, field, item, action)
	if err != nil {
		errorHandler.SaveError("error on updating user "+string(field), err)
		return ErrServer
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}

//------------------------------------------
//------------------------------------------

func (s *UserService) ListUsers(page int64, limit int64) (*model.PaginatedResult[model.UserProfileRes], error) {
	page, limit, skip := pageBounds(page, limit)
	users, err := s.userRepo.ListUsers(skip, limit)
	if err != nil {
		errorHandler.SaveError("error on listing users", err)
		return nil, ErrServer
	}
	total, err := s.userRepo.CountUsers("", false)
	if err != nil {
		errorHandler.SaveError("error on counting users", err)
		return nil, ErrServer
	}

	items := make([]model.UserProfileRes, 0, len(users))
	for i := range users {
		items = append(items, *users[i].ToProfile())
	}
	return &model.PaginatedResult[model.UserProfileRes]{
		Items:      items,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

// SetRole changes another account's role; nobody can change their own.
func (s *UserService) SetRole(actorId primitive.ObjectID, userId primitive.ObjectID, role model.UserRole) error {
	if actorId == userId {
		return ErrSelfModification
	}
	if role != model.AdminRole && role != model.UserRoleName {
		return newError(ErrInvalidInput, "Invalid role")
	}
	found, err := s.userRepo.UpdateUserRole(userId, role)
	if err != nil {
		errorHandler.SaveError("error on updating user role", err)
		return ErrServer
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) SetActive(actorId primitive.ObjectID, userId primitive.ObjectID, isActive bool) error {
	if actorId == userId {
		return ErrSelfModification
	}
	found, err := s.userRepo.UpdateUserActive(userId, isActive)
	if err != nil {
		errorHandler.SaveError("error on updating user status", err)
		return ErrServer
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser hard-deletes the account, then its ratings, comments and chat
// messages. Cleanup failures are reported but do not undo the deletion.
// Cached stats of every serie the user rated are dropped with the ratings.
func (s *UserService) DeleteUser(actorId primitive.ObjectID, userId primitive.ObjectID) error {
	if actorId == userId {
		return ErrSelfModification
	}
	found, err := s.userRepo.DeleteUser(userId)
	if err != nil {
		errorHandler.SaveError("error on deleting user", err)
		return ErrServer
	}
	if !found {
		return ErrUserNotFound
	}

	rated, err := s.ratingRepo.GetRatingsByUser(userId, 0, 0)
	if err != nil {
		errorHandler.SaveError("error on getting user ratings", err)
	}
	if err = s.ratingRepo.DeleteRatingsByUser(userId); err != nil {
		errorHandler.SaveError("error on deleting user ratings", err)
	}
	for _, r := range rated {
		s.cache.RemoveRatingStatsCache(r.SerieSlug)
	}
	if err = s.commentRepo.DeleteCommentsByUser(userId); err != nil {
		errorHandler.SaveError("error on deleting user comments", err)
	}
	if err = s.chatRepo.DeleteMessagesByUser(userId); err != nil {
		errorHandler.SaveError("error on deleting user chat messages", err)
	}
	return nil
}
