package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogCategory string

const (
	BlogNews      BlogCategory = "news"
	BlogAnalysis  BlogCategory = "analysis"
	BlogInterview BlogCategory = "interview"
	BlogEditorial BlogCategory = "editorial"
)

func (c BlogCategory) IsValid() bool {
	switch c {
	case BlogNews, BlogAnalysis, BlogInterview, BlogEditorial:
		return true
	}
	return false
}

type BlogPost struct {
	Id            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Excerpt       string             `bson:"excerpt" json:"excerpt"`
	Content       string             `bson:"content" json:"content"`
	Author        Author             `bson:"author" json:"author"`
	Category      BlogCategory       `bson:"category" json:"category"`
	Tags          []string           `bson:"tags" json:"tags"`
	FeaturedImage string             `bson:"featuredImage,omitempty" json:"featuredImage,omitempty"`
	Published     bool               `bson:"published" json:"published"`
	PublishedAt   *time.Time         `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type BlogPostReq struct {
	Title         string       `json:"title" validate:"required,max=300"`
	Slug          string       `json:"slug" validate:"omitempty,max=300"`
	Excerpt       string       `json:"excerpt" validate:"max=1000"`
	Content       string       `json:"content" validate:"required"`
	Author        Author       `json:"author" validate:"required"`
	Category      BlogCategory `json:"category" validate:"required"`
	Tags          []string     `json:"tags" validate:"dive,max=60"`
	FeaturedImage string       `json:"featuredImage" validate:"omitempty,url"`
	Published     bool         `json:"published"`
}

func (r *BlogPostReq) ToBlogPost() *BlogPost {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &BlogPost{
		Title:         r.Title,
		Slug:          r.Slug,
		Excerpt:       r.Excerpt,
		Content:       r.Content,
		Author:        r.Author,
		Category:      r.Category,
		Tags:          tags,
		FeaturedImage: r.FeaturedImage,
		Published:     r.Published,
	}
}
