package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"series_guide/configs"
	"series_guide/internal/repository"
	"series_guide/model"
	errorHandler "series_guide/pkg/error"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ICommentService interface {
	Create(userId primitive.ObjectID, serieId string, content string, parentId string) (*model.CommentWithUser, error)
	ListForSerie(serieId string, page int64, limit int64, currentUserId *primitive.ObjectID) (*model.PaginatedResult[*model.CommentWithUser], error)
	ListForUser(userId primitive.ObjectID, page int64, limit int64) ([]model.Comment, error)
	Count(serieId string) (int64, error)
	ToggleLike(commentId string, userId primitive.ObjectID) (bool, error)
	Update(commentId string, userId primitive.ObjectID, content string) (*model.Comment, error)
	Delete(commentId string, userId primitive.ObjectID) (int64, error)
	Moderate(commentId string) (int64, error)
}

type CommentService struct {
	commentRepo repository.ICommentRepository
	seriesRepo  repository.ISeriesRepository
	userRepo    repository.IUserRepository
}

func NewCommentService(commentRepo repository.ICommentRepository, seriesRepo repository.ISeriesRepository,
	userRepo repository.IUserRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		seriesRepo:  seriesRepo,
		userRepo:    userRepo,
	}
}

//------------------------------------------
//------------------------------------------

func checkCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > configs.GetDbConfigs().CommentMaxLength {
		return "", ErrContentTooLong
	}
	return content, nil
}

// Create adds a comment or a reply. Replies must point at a top-level
// comment of the same serie, which keeps threads one level deep.
func (s *CommentService) Create(userId primitive.ObjectID, serieId string, content string, parentId string) (*model.CommentWithUser, error) {
	content, err := checkCommentContent(content)
	if err != nil {
		return nil, err
	}
	serieObjectId, err := primitive.ObjectIDFromHex(serieId)
	if err != nil {
		return nil, ErrInvalidId
	}
	serie, err := s.seriesRepo.GetSerieById(serieObjectId)
	if err != nil {
		errorHandler.SaveError("error on getting comment serie", err)
		return nil, ErrServer
	}
	if serie == nil {
		return nil, ErrSerieNotFound
	}

	var parentObjectId *primitive.ObjectID
	if parentId != "" {
		pid, err := primitive.ObjectIDFromHex(parentId)
		if err != nil {
			return nil, ErrInvalidParent
		}
		parent, err := s.commentRepo.GetCommentById(pid)
		if err != nil {
			errorHandler.SaveError("error on getting parent comment", err)
			return nil, ErrServer
		}
		if parent == nil || parent.SerieId != serieObjectId || parent.IsReply() {
			return nil, ErrInvalidParent
		}
		parentObjectId = &pid
	}

	user, err := s.userRepo.GetUserById(userId)
	if err != nil {
		errorHandler.SaveError("error on getting comment author", err)
		return nil, ErrServer
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := time.Now().UTC()
	comment := &model.Comment{
		UserId:    userId,
		SerieId:   serieObjectId,
		Content:   content,
		ParentId:  parentObjectId,
		Likes:     []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err = s.commentRepo.CreateComment(comment); err != nil {
		errorHandler.SaveError("error on creating comment", err)
		return nil, ErrServer
	}
	summary := &model.UserSummary{Id: user.Id, Username: user.Username}
	return model.NewCommentWithUser(comment, summary, &userId), nil
}

// ListForSerie pages over top-level comments, newest first, each with all
// of its replies oldest first.
func (s *CommentService) ListForSerie(serieId string, page int64, limit int64, currentUserId *primitive.ObjectID) (*model.PaginatedResult[*model.CommentWithUser], error) {
	serieObjectId, err := primitive.ObjectIDFromHex(serieId)
	if err != nil {
		return nil, ErrInvalidId
	}
	page, limit, skip := pageBounds(page, limit)

	topLevel, err := s.commentRepo.GetTopLevelComments(serieObjectId, skip, limit)
	if err != nil {
		errorHandler.SaveError("error on listing comments", err)
		return nil, ErrServer
	}
	total, err := s.commentRepo.CountTopLevelComments(serieObjectId)
	if err != nil {
		errorHandler.SaveError("error on counting comments", err)
		return nil, ErrServer
	}

	parentIds := make([]primitive.ObjectID, 0, len(topLevel))
	for _, c := range topLevel {
		parentIds = append(parentIds, c.Id)
	}
	replies, err := s.commentRepo.GetReplies(parentIds)
	if err != nil {
		errorHandler.SaveError("error on listing comment replies", err)
		return nil, ErrServer
	}

	users, err := s.userSummaries(topLevel, replies)
	if err != nil {
		errorHandler.SaveError("error on getting comment authors", err)
		return nil, ErrServer
	}

	items := make([]*model.CommentWithUser, 0, len(topLevel))
	byId := make(map[primitive.ObjectID]*model.CommentWithUser, len(topLevel))
	for i := range topLevel {
		item := model.NewCommentWithUser(&topLevel[i], users[topLevel[i].UserId], currentUserId)
		item.Replies = make([]*model.CommentWithUser, 0)
		items = append(items, item)
		byId[topLevel[i].Id] = item
	}
	for i := range replies {
		parent, ok := byId[*replies[i].ParentId]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, model.NewCommentWithUser(&replies[i], users[replies[i].UserId], currentUserId))
	}

	return &model.PaginatedResult[*model.CommentWithUser]{
		Items:      items,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

func (s *CommentService) userSummaries(groups ...[]model.Comment) (map[primitive.ObjectID]*model.UserSummary, error) {
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0)
	for _, group := range groups {
		for _, c := range group {
			if _, ok := seen[c.UserId]; ok {
				continue
			}
			seen[c.UserId] = struct{}{}
			ids = append(ids, c.UserId)
		}
	}
	summaries, err := s.userRepo.GetUserSummaries(ids)
	if err != nil {
		return nil, err
	}
	result := make(map[primitive.ObjectID]*model.UserSummary, len(summaries))
	for i := range summaries {
		result[summaries[i].Id] = &summaries[i]
	}
	return result, nil
}

func (s *CommentService) ListForUser(userId primitive.ObjectID, page int64, limit int64) ([]model.Comment, error) {
	_, limit, skip := pageBounds(page, limit)
	result, err := s.commentRepo.GetCommentsByUser(userId, skip, limit)
	if err != nil {
		errorHandler.SaveError("error on listing user comments", err)
		return nil, ErrServer
	}
	return result, nil
}

// Count counts every comment, or only those of one serie when serieId is set.
func (s *CommentService) Count(serieId string) (int64, error) {
	var filter *primitive.ObjectID
	if serieId != "" {
		objectId, err := primitive.ObjectIDFromHex(serieId)
		if err != nil {
			return 0, ErrInvalidId
		}
		filter = &objectId
	}
	count, err := s.commentRepo.CountComments(filter)
	if err != nil {
		errorHandler.SaveError("error on counting comments", err)
		return 0, ErrServer
	}
	return count, nil
}

//------------------------------------------
//------------------------------------------

// ToggleLike returns whether the user likes the comment afterwards.
func (s *CommentService) ToggleLike(commentId string, userId primitive.ObjectID) (bool, error) {
	objectId, err := primitive.ObjectIDFromHex(commentId)
	if err != nil {
		return false, ErrInvalidId
	}
	liked, found, err := s.commentRepo.ToggleCommentLike(objectId, userId)
	if err != nil {
		errorHandler.SaveError("error on toggling comment like", err)
		return false, ErrServer
	}
	if !found {
		return false, ErrCommentNotFound
	}
	return liked, nil
}

func (s *CommentService) Update(commentId string, userId primitive.ObjectID, content string) (*model.Comment, error) {
	content, err := checkCommentContent(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.ownedComment(commentId, &userId)
	if err != nil {
		return nil, err
	}
	found, err := s.commentRepo.UpdateCommentContent(comment.Id, content)
	if err != nil {
		errorHandler.SaveError("error on updating comment", err)
		return nil, ErrServer
	}
	if !found {
		return nil, ErrCommentNotFound
	}
	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	return comment, nil
}

// Delete removes the caller's comment together with its direct replies and
// returns how many documents went away.
func (s *CommentService) Delete(commentId string, userId primitive.ObjectID) (int64, error) {
	comment, err := s.ownedComment(commentId, &userId)
	if err != nil {
		return 0, err
	}
	return s.delete(comment.Id)
}

func (s *CommentService) Moderate(commentId string) (int64, error) {
	comment, err := s.ownedComment(commentId, nil)
	if err != nil {
		return 0, err
	}
	return s.delete(comment.Id)
}

func (s *CommentService) delete(id primitive.ObjectID) (int64, error) {
	deleted, err := s.commentRepo.DeleteCommentWithReplies(id)
	if err != nil {
		errorHandler.SaveError("error on deleting comment", err)
		return 0, ErrServer
	}
	if deleted == 0 {
		return 0, ErrCommentNotFound
	}
	return deleted, nil
}

// ownedComment loads the comment and, when ownerId is set, checks authorship.
func (s *CommentService) ownedComment(commentId string, ownerId *primitive.ObjectID) (*model.Comment, error) {
	objectId, err := primitive.ObjectIDFromHex(commentId)
	if err != nil {
		return nil, ErrInvalidId
	}
	comment, err := s.commentRepo.GetCommentById(objectId)
	if err != nil {
		errorHandler.SaveError("error on getting comment", err)
		return nil, ErrServer
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if ownerId != nil && comment.UserId != *ownerId {
		return nil, ErrNotOwner
	}
	return comment, nil
}
