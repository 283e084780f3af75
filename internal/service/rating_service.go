package service

import (
	"strings"
	"unicode/utf8"

	"series_guide/configs"
	"series_guide/internal/repository"
	"series_guide/model"
	errorHandler "series_guide/pkg/error"
	"series_guide/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ReviewMaxLength  = 1000
	maxBatchSlugs    = 100
	defaultTopLimit  = 10
	maxTopLimit      = 50
	topReviewerLimit = 10
)

type IRatingService interface {
	Rate(userId primitive.ObjectID, serieSlug string, score int, review string) (*model.Rating, error)
	GetUserRating(userId primitive.ObjectID, serieSlug string) (*model.Rating, error)
	GetStats(serieSlug string) (*model.RatingStats, error)
	ListSerieRatings(serieSlug string, page int64, limit int64) (*model.PaginatedResult[model.RatingWithUser], error)
	ListUserRatings(userId primitive.ObjectID, page int64, limit int64) ([]model.Rating, error)
	Delete(userId primitive.ObjectID, serieSlug string) error
	BatchStats(serieSlugs []string, userId *primitive.ObjectID) (map[string]model.BatchRatingItem, error)
	TopRatedSeries(limit int64) ([]model.TopRatedSerie, error)
	TopReviewers(limit int64) ([]model.TopReviewer, error)
}

type RatingService struct {
	ratingRepo repository.IRatingRepository
	cache      ICacheService
}

func NewRatingService(ratingRepo repository.IRatingRepository, cache ICacheService) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		cache:      cache,
	}
}

//------------------------------------------
//------------------------------------------

// Rate creates or replaces the caller's rating of a serie; there is never
// more than one rating per (user, serie).
func (s *RatingService) Rate(userId primitive.ObjectID, serieSlug string, score int, review string) (*model.Rating, error) {
	serieSlug = strings.TrimSpace(serieSlug)
	if serieSlug == "" {
		return nil, ErrMissingSlug
	}
	if score < model.MinRatingScore || score > model.MaxRatingScore {
		return nil, ErrInvalidRating
	}
	review = strings.TrimSpace(review)
	if utf8.RuneCountInString(review) > ReviewMaxLength {
		return nil, ErrContentTooLong
	}

	rating, err := s.ratingRepo.UpsertRating(userId, serieSlug, score, review)
	if err != nil {
		errorHandler.SaveError("error on saving rating", err)
		return nil, ErrServer
	}
	s.cache.RemoveRatingStatsCache(serieSlug)
	metrics.RatingsSubmitted.Inc()
	return rating, nil
}

// GetUserRating returns nil without error when the user has not rated the serie.
func (s *RatingService) GetUserRating(userId primitive.ObjectID, serieSlug string) (*model.Rating, error) {
	if serieSlug == "" {
		return nil, ErrMissingSlug
	}
	rating, err := s.ratingRepo.GetUserRating(userId, serieSlug)
	if err != nil {
		errorHandler.SaveError("error on getting user rating", err)
		return nil, ErrServer
	}
	return rating, nil
}

func (s *RatingService) GetStats(serieSlug string) (*model.RatingStats, error) {
	if serieSlug == "" {
		return nil, ErrMissingSlug
	}
	if cached, err := s.cache.GetRatingStatsCache(serieSlug); err == nil && cached != nil {
		return cached, nil
	}

	buckets, err := s.ratingRepo.GetScoreCounts([]string{serieSlug})
	if err != nil {
		errorHandler.SaveError("error on aggregating rating stats", err)
		return nil, ErrServer
	}
	stats := model.NewRatingStats(serieSlug, buckets)
	s.cache.SetRatingStatsCache(serieSlug, stats)
	return stats, nil
}

func (s *RatingService) ListSerieRatings(serieSlug string, page int64, limit int64) (*model.PaginatedResult[model.RatingWithUser], error) {
	if serieSlug == "" {
		return nil, ErrMissingSlug
	}
	page, limit, skip := pageBounds(page, limit)
	ratings, err := s.ratingRepo.GetSerieRatings(serieSlug, skip, limit)
	if err != nil {
		errorHandler.SaveError("error on listing serie ratings", err)
		return nil, ErrServer
	}
	total, err := s.ratingRepo.CountSerieRatings(serieSlug)
	if err != nil {
		errorHandler.SaveError("error on counting serie ratings", err)
		return nil, ErrServer
	}
	return &model.PaginatedResult[model.RatingWithUser]{
		Items:      ratings,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

func (s *RatingService) ListUserRatings(userId primitive.ObjectID, page int64, limit int64) ([]model.Rating, error) {
	_, limit, skip := pageBounds(page, limit)
	ratings, err := s.ratingRepo.GetRatingsByUser(userId, skip, limit)
	if err != nil {
		errorHandler.SaveError("error on listing user ratings", err)
		return nil, ErrServer
	}
	return ratings, nil
}

func (s *RatingService) Delete(userId primitive.ObjectID, serieSlug string) error {
	if serieSlug == "" {
		return ErrMissingSlug
	}
	deleted, err := s.ratingRepo.DeleteRating(userId, serieSlug)
	if err != nil {
		errorHandler.SaveError("error on deleting rating", err)
		return ErrServer
	}
	if !deleted {
		return ErrRatingNotFound
	}
	s.cache.RemoveRatingStatsCache(serieSlug)
	return nil
}

//------------------------------------------
//------------------------------------------

// ParseSerieSlugs splits a comma separated list, dropping blanks and
// repeated slugs while keeping the first-seen order.
func ParseSerieSlugs(raw string) []string {
	result := make([]string, 0)
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		slug := strings.TrimSpace(part)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		result = append(result, slug)
	}
	return result
}

// BatchStats answers for every requested slug and refuses batches over
// maxBatchSlugs. A failing lookup is reported
// and degrades to zero values instead of failing the whole batch.
func (s *RatingService) BatchStats(serieSlugs []string, userId *primitive.ObjectID) (map[string]model.BatchRatingItem, error) {
	if len(serieSlugs) == 0 {
		return nil, ErrMissingSlug
	}
	if len(serieSlugs) > maxBatchSlugs {
		return nil, ErrTooManySlugs
	}

	result := make(map[string]model.BatchRatingItem, len(serieSlugs))
	for _, slug := range serieSlugs {
		result[slug] = model.BatchRatingItem{}
	}

	buckets, err := s.ratingRepo.GetScoreCounts(serieSlugs)
	if err != nil {
		errorHandler.SaveError("error on aggregating batch rating stats", err)
	} else {
		bySlug := make(map[string][]model.ScoreCount)
		for _, b := range buckets {
			bySlug[b.SerieSlug] = append(bySlug[b.SerieSlug], b)
		}
		for _, slug := range serieSlugs {
			stats := model.NewRatingStats(slug, bySlug[slug])
			result[slug] = model.BatchRatingItem{
				AverageRating: stats.AverageRating,
				TotalRatings:  stats.TotalRatings,
			}
		}
	}

	if userId != nil {
		ratings, err := s.ratingRepo.GetUserRatingsForSeries(*userId, serieSlugs)
		if err != nil {
			errorHandler.SaveError("error on getting batch user ratings", err)
		} else {
			for _, r := range ratings {
				item, ok := result[r.SerieSlug]
				if !ok {
					continue
				}
				item.UserRating = r.Rating
				result[r.SerieSlug] = item
			}
		}
	}

	return result, nil
}

func (s *RatingService) TopRatedSeries(limit int64) ([]model.TopRatedSerie, error) {
	limit = clampTopLimit(limit)
	minRatings := configs.GetDbConfigs().TopRatedMinRatings
	result, err := s.ratingRepo.GetTopRatedSeries(limit, minRatings)
	if err != nil {
		errorHandler.SaveError("error on getting top rated series", err)
		return nil, ErrServer
	}
	return result, nil
}

func (s *RatingService) TopReviewers(limit int64) ([]model.TopReviewer, error) {
	if limit < 1 {
		limit = topReviewerLimit
	}
	limit = clampTopLimit(limit)
	result, err := s.ratingRepo.GetTopReviewers(limit)
	if err != nil {
		errorHandler.SaveError("error on getting top reviewers", err)
		return nil, ErrServer
	}
	return result, nil
}

func clampTopLimit(limit int64) int64 {
	if limit < 1 {
		return defaultTopLimit
	}
	if limit > maxTopLimit {
		return maxTopLimit
	}
	return limit
}
