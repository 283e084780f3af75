package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatMessageType string

const (
	ChatMessageNormal       ChatMessageType = "message"
	ChatMessageSystem       ChatMessageType = "system"
	ChatMessageAnnouncement ChatMessageType = "announcement"
)

const SystemChatUsername = "Sistema"

type ChatMessage struct {
	Id        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserId    primitive.ObjectID  `bson:"userId" json:"userId"`
	Username  string              `bson:"username" json:"username"`
	Message   string              `bson:"message" json:"message"`
	Type      ChatMessageType     `bson:"type" json:"type"`
	ReplyTo   *primitive.ObjectID `bson:"replyTo" json:"replyTo"`
	IsEdited  bool                `bson:"isEdited" json:"isEdited"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type ChatStats struct {
	TotalMessages   int64 `json:"totalMessages"`
	MessagesLast24h int64 `json:"messagesLast24h"`
	ActiveUsers     int64 `json:"activeUsers"`
}
