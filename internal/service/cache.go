package service

import (
	"context"
	"fmt"
	"time"

	"series_guide/db/redis"
	"series_guide/model"
	errorHandler "series_guide/pkg/error"

	"github.com/goccy/go-json"
)

type ICacheService interface {
	IsJwtRevoked(token string) bool
	RevokeJwt(token string, duration time.Duration) error
	GetRatingStatsCache(serieSlug string) (*model.RatingStats, error)
	SetRatingStatsCache(serieSlug string, stats *model.RatingStats)
	RemoveRatingStatsCache(serieSlug string)
}

const (
	jwtDataCachePrefix     = "jwtKey:"
	ratingStatsCachePrefix = "ratingStats:"
	ratingStatsCacheTTL    = 5 * time.Minute
	cacheTimeout           = 2 * time.Second
)

// CacheService is backed by redis. Without a redis connection every lookup
// misses and every write is dropped.
type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

//------------------------------------------
//------------------------------------------

func (s *CacheService) IsJwtRevoked(token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	exists, err := redis.ExistsRedis(ctx, jwtDataCachePrefix+token)
	if err != nil {
		errorHandler.SaveError("Redis Error on reading jwt", err)
		return false
	}
	return exists
}

// RevokeJwt keeps the token blacklisted for the rest of its lifetime.
func (s *CacheService) RevokeJwt(token string, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	err := redis.SetRedis(ctx, jwtDataCachePrefix+token, "revoked", duration)
	if err != nil {
		errorMessage := fmt.Sprintf("Redis Error on saving jwt: %v", err)
		errorHandler.SaveError(errorMessage, err)
	}
	return err
}

//------------------------------------------
//------------------------------------------

func (s *CacheService) GetRatingStatsCache(serieSlug string) (*model.RatingStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	result, err := redis.GetRedis(ctx, ratingStatsCachePrefix+serieSlug)
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var stats model.RatingStats
	if err = json.Unmarshal([]byte(result), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *CacheService) SetRatingStatsCache(serieSlug string, stats *model.RatingStats) {
	jsonData, err := json.Marshal(stats)
	if err != nil {
		errorHandler.SaveError("Redis Error on saving rating stats", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err = redis.SetRedis(ctx, ratingStatsCachePrefix+serieSlug, jsonData, ratingStatsCacheTTL); err != nil {
		errorHandler.SaveError("Redis Error on saving rating stats", err)
	}
}

func (s *CacheService) RemoveRatingStatsCache(serieSlug string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := redis.DelRedis(ctx, ratingStatsCachePrefix+serieSlug); err != nil {
		errorHandler.SaveError("Redis Error on removing rating stats", err)
	}
}
