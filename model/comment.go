package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	Id        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserId    primitive.ObjectID   `bson:"userId" json:"userId"`
	SerieId   primitive.ObjectID   `bson:"serieId" json:"serieId"`
	Content   string               `bson:"content" json:"content"`
	ParentId  *primitive.ObjectID  `bson:"parentId" json:"parentId"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (c *Comment) IsReply() bool {
	return c.ParentId != nil && !c.ParentId.IsZero()
}

func (c *Comment) LikedBy(userId primitive.ObjectID) bool {
	for _, id := range c.Likes {
		if id == userId {
			return true
		}
	}
	return false
}

type CommentWithUser struct {
	Comment
	User       *UserSummary       `json:"user"`
	Replies    []*CommentWithUser `json:"replies,omitempty"`
	LikesCount int                `json:"likesCount"`
	IsLiked    bool               `json:"isLiked"`
}

func NewCommentWithUser(c *Comment, user *UserSummary, currentUserId *primitive.ObjectID) *CommentWithUser {
	res := &CommentWithUser{
		Comment:    *c,
		User:       user,
		LikesCount: len(c.Likes),
	}
	if currentUserId != nil {
		res.IsLiked = c.LikedBy(*currentUserId)
	}
	return res
}
