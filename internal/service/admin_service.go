package service

import (
	"series_guide/configs"
	"series_guide/internal/repository"
	"series_guide/model"
	errorHandler "series_guide/pkg/error"

	"go.mongodb.org/mongo-driver/mongo"
)

const dashboardTopLimit = 5

type IAdminService interface {
	FetchDbConfigs() error
	GetDashboardStats() (*model.DashboardStats, error)
}

type AdminService struct {
	adminRepo     repository.IAdminRepository
	ratingService IRatingService
	chatService   IChatService
	mongodb       *mongo.Database
}

func NewAdminService(adminRepo repository.IAdminRepository, ratingService IRatingService,
	chatService IChatService, mongodb *mongo.Database) *AdminService {
	return &AdminService{
		adminRepo:     adminRepo,
		ratingService: ratingService,
		chatService:   chatService,
		mongodb:       mongodb,
	}
}

//-----------------------------------------
//-----------------------------------------

func (m *AdminService) FetchDbConfigs() error {
	if err := configs.FetchMongoDbConfigs(m.mongodb); err != nil {
		return ErrServer
	}
	return nil
}

func (m *AdminService) GetDashboardStats() (*model.DashboardStats, error) {
	counts, err := m.adminRepo.GetDashboardCounts()
	if err != nil {
		errorHandler.SaveError("error on getting dashboard counts", err)
		return nil, ErrServer
	}
	chatStats, err := m.chatService.Stats()
	if err != nil {
		return nil, err
	}
	topRated, err := m.ratingService.TopRatedSeries(dashboardTopLimit)
	if err != nil {
		return nil, err
	}
	topReviewers, err := m.ratingService.TopReviewers(dashboardTopLimit)
	if err != nil {
		return nil, err
	}
	return &model.DashboardStats{
		Counts:       *counts,
		Chat:         *chatStats,
		TopRated:     topRated,
		TopReviewers: topReviewers,
	}, nil
}
