package service

import (
	"errors"
	"time"

	"series_guide/internal/repository"
	"series_guide/model"
	errorHandler "series_guide/pkg/error"
	"series_guide/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ISeriesService interface {
	ListSeries(filter model.SerieFilter, page int64, limit int64) (*model.PaginatedResult[model.Serie], error)
	GetSerieBySlug(slug string) (*model.Serie, error)
	GetSerieById(id string) (*model.Serie, error)
	CreateSerie(req *model.SerieReq) (*model.Serie, error)
	UpdateSerie(id string, req *model.SerieReq) (*model.Serie, error)
	DeleteSerie(id string) error
}

type SeriesService struct {
	seriesRepo repository.ISeriesRepository
}

func NewSeriesService(seriesRepo repository.ISeriesRepository) *SeriesService {
	return &SeriesService{seriesRepo: seriesRepo}
}

//------------------------------------------
//------------------------------------------

func (s *SeriesService) ListSeries(filter model.SerieFilter, page int64, limit int64) (*model.PaginatedResult[model.Serie], error) {
	page, limit, skip := pageBounds(page, limit)
	series, err := s.seriesRepo.GetSeries(filter, skip, limit)
	if err != nil {
		errorHandler.SaveError("error on listing series", err)
		return nil, ErrServer
	}
	total, err := s.seriesRepo.CountSeries(filter)
	if err != nil {
		errorHandler.SaveError("error on counting series", err)
		return nil, ErrServer
	}
	return &model.PaginatedResult[model.Serie]{
		Items:      series,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

func (s *SeriesService) GetSerieBySlug(slug string) (*model.Serie, error) {
	if slug == "" {
		return nil, ErrMissingSlug
	}
	serie, err := s.seriesRepo.GetSerieBySlug(slug)
	return s.found(serie, err)
}

func (s *SeriesService) GetSerieById(id string) (*model.Serie, error) {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidId
	}
	serie, err := s.seriesRepo.GetSerieById(objectId)
	return s.found(serie, err)
}

func (s *SeriesService) found(serie *model.Serie, err error) (*model.Serie, error) {
	if err != nil {
		errorHandler.SaveError("error on getting serie", err)
		return nil, ErrServer
	}
	if serie == nil {
		return nil, ErrSerieNotFound
	}
	return serie, nil
}

//------------------------------------------
//------------------------------------------

// CreateSerie stores a new serie. The LGBTQ flag and genre tag are made
// consistent here so readers can rely on either.
func (s *SeriesService) CreateSerie(req *model.SerieReq) (*model.Serie, error) {
	serie := req.ToSerie()
	if err := prepareSerie(serie); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	serie.CreatedAt = now
	serie.UpdatedAt = now

	if _, err := s.seriesRepo.CreateSerie(serie); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		errorHandler.SaveError("error on creating serie", err)
		return nil, ErrServer
	}
	return serie, nil
}

// UpdateSerie replaces every editable field with the request values.
func (s *SeriesService) UpdateSerie(id string, req *model.SerieReq) (*model.Serie, error) {
	existing, err := s.GetSerieById(id)
	if err != nil {
		return nil, err
	}
	serie := req.ToSerie()
	if err = prepareSerie(serie); err != nil {
		return nil, err
	}
	serie.Id = existing.Id
	serie.CreatedAt = existing.CreatedAt
	serie.UpdatedAt = time.Now().UTC()

	found, err := s.seriesRepo.UpdateSerie(serie)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		errorHandler.SaveError("error on updating serie", err)
		return nil, ErrServer
	}
	if !found {
		return nil, ErrSerieNotFound
	}
	return serie, nil
}

func (s *SeriesService) DeleteSerie(id string) error {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidId
	}
	deleted, err := s.seriesRepo.DeleteSerie(objectId)
	if err != nil {
		errorHandler.SaveError("error on deleting serie", err)
		return ErrServer
	}
	if !deleted {
		return ErrSerieNotFound
	}
	return nil
}

func prepareSerie(serie *model.Serie) error {
	if serie.Slug == "" {
		serie.Slug = serie.Title
	}
	serie.Slug = util.Slugify(serie.Slug)
	if serie.Slug == "" {
		return ErrMissingSlug
	}
	serie.SyncLgbtqClassification()
	return nil
}
