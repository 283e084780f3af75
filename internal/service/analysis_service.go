package service

import (
	"errors"
	"strings"
	"time"

	"series_guide/internal/repository"
	"series_guide/model"
	errorHandler "series_guide/pkg/error"
	"series_guide/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const analysisListLimit = 50

type IAnalysisService interface {
	ListPublished(page int64, limit int64) (*model.PaginatedResult[model.Analysis], error)
	ListAll(page int64, limit int64) (*model.PaginatedResult[model.Analysis], error)
	GetBySlug(slug string) (*model.Analysis, error)
	GetById(id string) (*model.Analysis, error)
	GetBySerie(serieSlug string, limit int64) ([]model.Analysis, error)
	Search(query string, limit int64) ([]model.Analysis, error)
	CreateAnalysis(req *model.AnalysisReq) (*model.Analysis, error)
	UpdateAnalysis(id string, req *model.AnalysisReq) (*model.Analysis, error)
	DeleteAnalysis(id string) error
	IncrementViews(key string) error
	IncrementLikes(key string) error
	DecrementLikes(key string) error
	ApplyLikeAction(key string, action model.AnalysisLikeAction) error
}

type AnalysisService struct {
	analysisRepo repository.IAnalysisRepository
}

func NewAnalysisService(analysisRepo repository.IAnalysisRepository) *AnalysisService {
	return &AnalysisService{analysisRepo: analysisRepo}
}

//------------------------------------------
//------------------------------------------

func (s *AnalysisService) ListPublished(page int64, limit int64) (*model.PaginatedResult[model.Analysis], error) {
	return s.list(page, limit, true)
}

func (s *AnalysisService) ListAll(page int64, limit int64) (*model.PaginatedResult[model.Analysis], error) {
	return s.list(page, limit, false)
}

func (s *AnalysisService) list(page int64, limit int64, publishedOnly bool) (*model.PaginatedResult[model.Analysis], error) {
	page, limit, skip := pageBounds(page, limit)
	var items []model.Analysis
	var err error
	if publishedOnly {
		items, err = s.analysisRepo.GetPublishedAnalyses(skip, limit)
	} else {
		items, err = s.analysisRepo.GetAllAnalyses(skip, limit)
	}
	if err != nil {
		errorHandler.SaveError("error on listing analyses", err)
		return nil, ErrServer
	}
	total, err := s.analysisRepo.CountAnalyses(publishedOnly)
	if err != nil {
		errorHandler.SaveError("error on counting analyses", err)
		return nil, ErrServer
	}
	return &model.PaginatedResult[model.Analysis]{
		Items:      items,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

// GetBySlug only exposes published analyses.
func (s *AnalysisService) GetBySlug(slug string) (*model.Analysis, error) {
	analysis, err := s.analysisRepo.GetAnalysisBySlug(slug)
	if err != nil {
		errorHandler.SaveError("error on getting analysis", err)
		return nil, ErrServer
	}
	if analysis == nil || analysis.Status != model.AnalysisPublished {
		return nil, ErrAnalysisNotFound
	}
	return analysis, nil
}

func (s *AnalysisService) GetById(id string) (*model.Analysis, error) {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidId
	}
	analysis, err := s.analysisRepo.GetAnalysisById(objectId)
	if err != nil {
		errorHandler.SaveError("error on getting analysis", err)
		return nil, ErrServer
	}
	if analysis == nil {
		return nil, ErrAnalysisNotFound
	}
	return analysis, nil
}

func (s *AnalysisService) GetBySerie(serieSlug string, limit int64) ([]model.Analysis, error) {
	if serieSlug == "" {
		return nil, ErrMissingSlug
	}
	result, err := s.analysisRepo.GetAnalysesBySerie(serieSlug, clampListLimit(limit))
	if err != nil {
		errorHandler.SaveError("error on getting serie analyses", err)
		return nil, ErrServer
	}
	return result, nil
}

func (s *AnalysisService) Search(query string, limit int64) ([]model.Analysis, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Analysis{}, nil
	}
	result, err := s.analysisRepo.SearchAnalyses(query, clampListLimit(limit))
	if err != nil {
		errorHandler.SaveError("error on searching analyses", err)
		return nil, ErrServer
	}
	return result, nil
}

func clampListLimit(limit int64) int64 {
	if limit < 1 || limit > analysisListLimit {
		return analysisListLimit
	}
	return limit
}

//------------------------------------------
//------------------------------------------

func (s *AnalysisService) CreateAnalysis(req *model.AnalysisReq) (*model.Analysis, error) {
	analysis := req.ToAnalysis()
	analysis.Slug = util.Slugify(firstNonEmpty(analysis.Slug, analysis.Title))
	if analysis.Slug == "" {
		return nil, ErrMissingSlug
	}
	now := time.Now().UTC()
	analysis.CreatedAt = now
	analysis.UpdatedAt = now
	if analysis.Status == model.AnalysisPublished {
		analysis.PublishedAt = &now
	}

	if _, err := s.analysisRepo.CreateAnalysis(analysis); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		errorHandler.SaveError("error on creating analysis", err)
		return nil, ErrServer
	}
	return analysis, nil
}

// UpdateAnalysis replaces the editable fields and keeps the counters.
// The first transition to published stamps publishedAt.
func (s *AnalysisService) UpdateAnalysis(id string, req *model.AnalysisReq) (*model.Analysis, error) {
	existing, err := s.GetById(id)
	if err != nil {
		return nil, err
	}
	analysis := req.ToAnalysis()
	analysis.Slug = util.Slugify(firstNonEmpty(analysis.Slug, analysis.Title))
	if analysis.Slug == "" {
		return nil, ErrMissingSlug
	}
	now := time.Now().UTC()
	analysis.Id = existing.Id
	analysis.Views = existing.Views
	analysis.Likes = existing.Likes
	analysis.CreatedAt = existing.CreatedAt
	analysis.UpdatedAt = now
	analysis.PublishedAt = existing.PublishedAt
	if analysis.Status == model.AnalysisPublished && analysis.PublishedAt == nil {
		analysis.PublishedAt = &now
	}

	found, err := s.analysisRepo.UpdateAnalysis(analysis)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		errorHandler.SaveError("error on updating analysis", err)
		return nil, ErrServer
	}
	if !found {
		return nil, ErrAnalysisNotFound
	}
	return analysis, nil
}

func (s *AnalysisService) DeleteAnalysis(id string) error {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidId
	}
	deleted, err := s.analysisRepo.DeleteAnalysis(objectId)
	if err != nil {
		errorHandler.SaveError("error on deleting analysis", err)
		return ErrServer
	}
	if !deleted {
		return ErrAnalysisNotFound
	}
	return nil
}

//------------------------------------------
//------------------------------------------

func (s *AnalysisService) IncrementViews(key string) error {
	return s.increment(key, model.AnalysisViewsCounter)
}

func (s *AnalysisService) IncrementLikes(key string) error {
	return s.increment(key, model.AnalysisLikesCounter)
}

func (s *AnalysisService) increment(key string, counter model.AnalysisCounter) error {
	if key == "" {
		return newError(ErrInvalidInput, "Missing analysisId or analysisSlug")
	}
	found, err := s.analysisRepo.IncrementCounter(key, counter, 1)
	if err != nil {
		errorHandler.SaveError("error on incrementing analysis "+string(counter), err)
		return ErrServer
	}
	if !found {
		return ErrAnalysisNotFound
	}
	return nil
}

// DecrementLikes never takes the counter below zero; unliking an analysis
// at zero likes is a no-op.
func (s *AnalysisService) DecrementLikes(key string) error {
	if key == "" {
		return newError(ErrInvalidInput, "Missing analysisId or analysisSlug")
	}
	matched, err := s.analysisRepo.IncrementCounter(key, model.AnalysisLikesCounter, -1)
	if err != nil {
		errorHandler.SaveError("error on decrementing analysis likes", err)
		return ErrServer
	}
	if matched {
		return nil
	}
	exists, err := s.analysisRepo.AnalysisExists(key)
	if err != nil {
		errorHandler.SaveError("error on checking analysis", err)
		return ErrServer
	}
	if !exists {
		return ErrAnalysisNotFound
	}
	return nil
}

func (s *AnalysisService) ApplyLikeAction(key string, action model.AnalysisLikeAction) error {
	switch {
	case action.IsIncrement():
		return s.IncrementLikes(key)
	case action.IsDecrement():
		return s.DecrementLikes(key)
	default:
		return ErrInvalidAction
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
