package model

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

type Rating struct {
	Id        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserId    primitive.ObjectID `bson:"userId" json:"userId"`
	SerieSlug string             `bson:"serieSlug" json:"serieSlug"`
	Rating    int                `bson:"rating" json:"rating"`
	Review    string             `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type RatingWithUser struct {
	Rating `bson:",inline"`
	User   *UserSummary `bson:"user,omitempty" json:"user,omitempty"`
}

//------------------------------------------
//------------------------------------------

type RatingStats struct {
	SerieSlug          string        `json:"serieSlug"`
	AverageRating      float64       `json:"averageRating"`
	TotalRatings       int64         `json:"totalRatings"`
	RatingDistribution map[int]int64 `json:"ratingDistribution"`
}

// ScoreCount is one histogram bucket as produced by the ratings aggregation.
type ScoreCount struct {
	SerieSlug string `bson:"serieSlug"`
	Score     int    `bson:"score"`
	Count     int64  `bson:"count"`
}

func EmptyRatingStats(serieSlug string) *RatingStats {
	dist := make(map[int]int64, MaxRatingScore)
	for i := MinRatingScore; i <= MaxRatingScore; i++ {
		dist[i] = 0
	}
	return &RatingStats{
		SerieSlug:          serieSlug,
		AverageRating:      0,
		TotalRatings:       0,
		RatingDistribution: dist,
	}
}

// NewRatingStats folds histogram buckets into the aggregate. Buckets outside
// 1..5 are ignored; the mean is rounded to one decimal.
func NewRatingStats(serieSlug string, buckets []ScoreCount) *RatingStats {
	stats := EmptyRatingStats(serieSlug)
	var sum int64
	for _, b := range buckets {
		if b.Score < MinRatingScore || b.Score > MaxRatingScore || b.Count <= 0 {
			continue
		}
		stats.RatingDistribution[b.Score] += b.Count
		stats.TotalRatings += b.Count
		sum += int64(b.Score) * b.Count
	}
	if stats.TotalRatings > 0 {
		stats.AverageRating = RoundOneDecimal(float64(sum) / float64(stats.TotalRatings))
	}
	return stats
}

func RoundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

//------------------------------------------
//------------------------------------------

type BatchRatingItem struct {
	UserRating    int     `json:"userRating"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int64   `json:"totalRatings"`
}

type TopRatedSerie struct {
	SerieSlug     string  `bson:"_id" json:"serieSlug"`
	AverageRating float64 `bson:"averageRating" json:"averageRating"`
	TotalRatings  int64   `bson:"totalRatings" json:"totalRatings"`
}

type TopReviewer struct {
	UserId        primitive.ObjectID `bson:"_id" json:"userId"`
	Username      string             `bson:"username" json:"username"`
	TotalRatings  int64              `bson:"totalRatings" json:"totalRatings"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
}
