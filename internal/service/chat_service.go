package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"series_guide/configs"
	"series_guide/internal/repository"
	"series_guide/model"
	errorHandler "series_guide/pkg/error"
	"series_guide/pkg/logger"
	"series_guide/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultChatLimit = 50
	maxChatLimit     = 100
)

type IChatService interface {
	Send(userId primitive.ObjectID, text string, replyTo string) (*model.ChatMessage, error)
	List(limit int64, before *time.Time) ([]model.ChatMessage, error)
	Edit(messageId string, userId primitive.ObjectID, text string) (*model.ChatMessage, error)
	Delete(messageId string, userId primitive.ObjectID, isAdmin bool) error
	SystemMessage(text string) (*model.ChatMessage, error)
	Announce(adminId primitive.ObjectID, text string) (*model.ChatMessage, error)
	Stats() (*model.ChatStats, error)
	Cleanup() (int64, error)
	RunCleanupWorker(ctx context.Context)
}

type ChatService struct {
	chatRepo repository.IChatRepository
	userRepo repository.IUserRepository
}

func NewChatService(chatRepo repository.IChatRepository, userRepo repository.IUserRepository) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
	}
}

//------------------------------------------
//------------------------------------------

func checkChatText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(text) > configs.GetDbConfigs().ChatMessageMaxLength {
		return "", ErrContentTooLong
	}
	return text, nil
}

func (s *ChatService) Send(userId primitive.ObjectID, text string, replyTo string) (*model.ChatMessage, error) {
	text, err := checkChatText(text)
	if err != nil {
		return nil, err
	}
	var replyToId *primitive.ObjectID
	if replyTo != "" {
		id, err := primitive.ObjectIDFromHex(replyTo)
		if err != nil {
			return nil, ErrInvalidId
		}
		target, err := s.chatRepo.GetMessageById(id)
		if err != nil {
			errorHandler.SaveError("error on getting replied chat message", err)
			return nil, ErrServer
		}
		if target == nil {
			return nil, ErrMessageNotFound
		}
		replyToId = &id
	}

	user, err := s.userRepo.GetUserById(userId)
	if err != nil {
		errorHandler.SaveError("error on getting chat user", err)
		return nil, ErrServer
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.insert(user.Id, user.Username, text, model.ChatMessageNormal, replyToId)
}

func (s *ChatService) insert(userId primitive.ObjectID, username string, text string,
	messageType model.ChatMessageType, replyTo *primitive.ObjectID) (*model.ChatMessage, error) {
	now := time.Now().UTC()
	message := &model.ChatMessage{
		UserId:    userId,
		Username:  username,
		Message:   text,
		Type:      messageType,
		ReplyTo:   replyTo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.chatRepo.CreateMessage(message); err != nil {
		errorHandler.SaveError("error on saving chat message", err)
		return nil, ErrServer
	}
	return message, nil
}

// List returns up to limit messages older than before, oldest first.
func (s *ChatService) List(limit int64, before *time.Time) ([]model.ChatMessage, error) {
	if limit < 1 {
		limit = defaultChatLimit
	}
	if limit > maxChatLimit {
		limit = maxChatLimit
	}
	messages, err := s.chatRepo.GetLatestMessages(limit, before)
	if err != nil {
		errorHandler.SaveError("error on listing chat messages", err)
		return nil, ErrServer
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Edit lets the author change the text of a regular message.
func (s *ChatService) Edit(messageId string, userId primitive.ObjectID, text string) (*model.ChatMessage, error) {
	text, err := checkChatText(text)
	if err != nil {
		return nil, err
	}
	message, err := s.getMessage(messageId)
	if err != nil {
		return nil, err
	}
	if message.UserId != userId {
		return nil, ErrNotOwner
	}
	if message.Type != model.ChatMessageNormal {
		return nil, ErrNotEditable
	}

	found, err := s.chatRepo.UpdateMessageText(message.Id, text)
	if err != nil {
		errorHandler.SaveError("error on editing chat message", err)
		return nil, ErrServer
	}
	if !found {
		return nil, ErrMessageNotFound
	}
	message.Message = text
	message.IsEdited = true
	message.UpdatedAt = time.Now().UTC()
	return message, nil
}

func (s *ChatService) Delete(messageId string, userId primitive.ObjectID, isAdmin bool) error {
	message, err := s.getMessage(messageId)
	if err != nil {
		return err
	}
	if !isAdmin && message.UserId != userId {
		return ErrNotOwner
	}
	deleted, err := s.chatRepo.DeleteMessage(message.Id)
	if err != nil {
		errorHandler.SaveError("error on deleting chat message", err)
		return ErrServer
	}
	if !deleted {
		return ErrMessageNotFound
	}
	return nil
}

func (s *ChatService) getMessage(messageId string) (*model.ChatMessage, error) {
	id, err := primitive.ObjectIDFromHex(messageId)
	if err != nil {
		return nil, ErrInvalidId
	}
	message, err := s.chatRepo.GetMessageById(id)
	if err != nil {
		errorHandler.SaveError("error on getting chat message", err)
		return nil, ErrServer
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}
	return message, nil
}

//------------------------------------------
//------------------------------------------

func (s *ChatService) SystemMessage(text string) (*model.ChatMessage, error) {
	text, err := checkChatText(text)
	if err != nil {
		return nil, err
	}
	return s.insert(primitive.NilObjectID, model.SystemChatUsername, text, model.ChatMessageSystem, nil)
}

func (s *ChatService) Announce(adminId primitive.ObjectID, text string) (*model.ChatMessage, error) {
	text, err := checkChatText(text)
	if err != nil {
		return nil, err
	}
	admin, err := s.userRepo.GetUserById(adminId)
	if err != nil {
		errorHandler.SaveError("error on getting announcing admin", err)
		return nil, ErrServer
	}
	if admin == nil {
		return nil, ErrUserNotFound
	}
	return s.insert(admin.Id, admin.Username, text, model.ChatMessageAnnouncement, nil)
}

func (s *ChatService) Stats() (*model.ChatStats, error) {
	total, err := s.chatRepo.CountMessages(nil)
	if err != nil {
		errorHandler.SaveError("error on counting chat messages", err)
		return nil, ErrServer
	}
	since := time.Now().UTC().Add(-24 * time.Hour)
	recent, err := s.chatRepo.CountMessages(&since)
	if err != nil {
		errorHandler.SaveError("error on counting recent chat messages", err)
		return nil, ErrServer
	}
	active, err := s.chatRepo.CountActiveUsers(since)
	if err != nil {
		errorHandler.SaveError("error on counting active chat users", err)
		return nil, ErrServer
	}
	return &model.ChatStats{
		TotalMessages:   total,
		MessagesLast24h: recent,
		ActiveUsers:     active,
	}, nil
}

//------------------------------------------
//------------------------------------------

// Cleanup trims the chat to the configured number of newest messages.
func (s *ChatService) Cleanup() (int64, error) {
	keep := configs.GetDbConfigs().ChatMaxMessages
	removed, err := s.chatRepo.TrimMessages(keep)
	if err != nil {
		errorHandler.SaveError("error on chat cleanup", err)
		return 0, ErrServer
	}
	if removed > 0 {
		metrics.ChatMessagesTrimmed.Add(float64(removed))
		logger.Info("chat cleanup", "removed", removed, "kept", keep)
	}
	return removed, nil
}

// RunCleanupWorker blocks until ctx is done, running Cleanup on the interval
// from the dynamic configs. The interval is re-read after every run.
func (s *ChatService) RunCleanupWorker(ctx context.Context) {
	for {
		interval := time.Duration(configs.GetDbConfigs().ChatCleanupIntervalMin) * time.Minute
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			_, _ = s.Cleanup()
		}
	}
}
