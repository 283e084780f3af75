package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnalysisStatus string

const (
	AnalysisDraft     AnalysisStatus = "draft"
	AnalysisPublished AnalysisStatus = "published"
)

type Author struct {
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

type Analysis struct {
	Id          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Content     string             `bson:"content" json:"content"`
	Excerpt     string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Universe    string             `bson:"universe,omitempty" json:"universe,omitempty"`
	Tags        []string           `bson:"tags" json:"tags"`
	SerieSlug   string             `bson:"serieSlug,omitempty" json:"serieSlug,omitempty"`
	Author      *Author            `bson:"author,omitempty" json:"author,omitempty"`
	Status      AnalysisStatus     `bson:"status" json:"status"`
	ReadTime    int                `bson:"readTime,omitempty" json:"readTime,omitempty"`
	Views       int64              `bson:"views" json:"views"`
	Likes       int64              `bson:"likes" json:"likes"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	PublishedAt *time.Time         `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
}

type AnalysisCounter string

const (
	AnalysisViewsCounter AnalysisCounter = "views"
	AnalysisLikesCounter AnalysisCounter = "likes"
)

// AnalysisLikeAction accepts both verb pairs used by clients.
type AnalysisLikeAction string

const (
	AnalysisLike   AnalysisLikeAction = "like"
	AnalysisUnlike AnalysisLikeAction = "unlike"
	AnalysisAdd    AnalysisLikeAction = "add"
	AnalysisRemove AnalysisLikeAction = "remove"
)

func (a AnalysisLikeAction) IsIncrement() bool {
	return a == AnalysisLike || a == AnalysisAdd
}

func (a AnalysisLikeAction) IsDecrement() bool {
	return a == AnalysisUnlike || a == AnalysisRemove
}

//------------------------------------------
//------------------------------------------

type AnalysisReq struct {
	Title     string         `json:"title" validate:"required,max=300"`
	Slug      string         `json:"slug" validate:"omitempty,max=300"`
	Content   string         `json:"content" validate:"required"`
	Excerpt   string         `json:"excerpt" validate:"max=1000"`
	Universe  string         `json:"universe" validate:"omitempty,oneof=blue red"`
	Tags      []string       `json:"tags" validate:"dive,max=60"`
	SerieSlug string         `json:"serieSlug" validate:"max=200"`
	Author    *Author        `json:"author"`
	Status    AnalysisStatus `json:"status" validate:"omitempty,oneof=draft published"`
	ReadTime  int            `json:"readTime" validate:"min=0"`
}

func (r *AnalysisReq) ToAnalysis() *Analysis {
	status := r.Status
	if status == "" {
		status = AnalysisDraft
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Analysis{
		Title:     r.Title,
		Slug:      r.Slug,
		Content:   r.Content,
		Excerpt:   r.Excerpt,
		Universe:  r.Universe,
		Tags:      tags,
		SerieSlug: r.SerieSlug,
		Author:    r.Author,
		Status:    status,
		ReadTime:  r.ReadTime,
	}
}
