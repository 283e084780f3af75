package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"series_guide/api"
	"series_guide/api/middleware"
	"series_guide/configs"
	"series_guide/db/mongodb"
	"series_guide/db/redis"
	"series_guide/internal/handler"
	"series_guide/internal/repository"
	"series_guide/internal/service"
	"series_guide/pkg/logger"
	"series_guide/pkg/password"

	"github.com/getsentry/sentry-go"
)

// @title						Series Guide
// @version					1.0
// @description				Backend of the series guide: catalog, analysis, ratings, comments, chat and blog.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and JWT token.
// @Accept						json
// @Produce					json
func main() {
	configs.LoadEnvVariables()

	if err := logger.Init(configs.GetConfigs().LogMode); err != nil {
		log.Fatalf("logger.Init: %s", err)
	}
	defer logger.Sync()

	err := sentry.Init(sentry.ClientOptions{
		Dsn:     configs.GetConfigs().SentryDns,
		Release: configs.GetConfigs().SentryRelease,
		// Set TracesSampleRate to 1.0 to capture 100%
		// of transactions for performance monitoring.
		TracesSampleRate: 1,
		EnableTracing:    true,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	// Flush buffered events before the program terminates.
	defer sentry.Flush(2 * time.Second)

	redis.ConnectRedis()

	mongoDB, err := mongodb.NewDatabase()
	if err != nil {
		log.Fatalf("could not initialize mongodb database connection: %s", err)
	}
	defer mongoDB.Close()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err = mongoDB.EnsureIndexes(indexCtx); err != nil {
		logger.Error("could not create mongodb indexes", "error", err)
	}
	cancelIndexes()

	go configs.LoadDbConfigs(mongoDB.GetDB())

	db := mongoDB.GetDB()
	userRep := repository.NewUserRepository(db)
	seriesRep := repository.NewSeriesRepository(db)
	analysisRep := repository.NewAnalysisRepository(db)
	ratingRep := repository.NewRatingRepository(db)
	commentRep := repository.NewCommentRepository(db)
	chatRep := repository.NewChatRepository(db)
	blogRep := repository.NewBlogRepository(db)
	adminRep := repository.NewAdminRepository(db)

	cacheSvc := service.NewCacheService()
	hasher := password.NewHasher(password.DefaultCost, configs.GetConfigs().LegacyPasswordSalt)

	authSvc := service.NewAuthService(userRep, cacheSvc, hasher)
	userSvc := service.NewUserService(userRep, ratingRep, commentRep, chatRep, cacheSvc)
	seriesSvc := service.NewSeriesService(seriesRep)
	analysisSvc := service.NewAnalysisService(analysisRep)
	ratingSvc := service.NewRatingService(ratingRep, cacheSvc)
	commentSvc := service.NewCommentService(commentRep, seriesRep, userRep)
	chatSvc := service.NewChatService(chatRep, userRep)
	blogSvc := service.NewBlogService(blogRep)
	adminSvc := service.NewAdminService(adminRep, ratingSvc, chatSvc, db)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	go chatSvc.RunCleanupWorker(workerCtx)

	api.InitRouter(api.Handlers{
		Auth:     handler.NewAuthHandler(authSvc, userSvc),
		User:     handler.NewUserHandler(userSvc, ratingSvc, commentSvc),
		Series:   handler.NewSeriesHandler(seriesSvc, analysisSvc),
		Analysis: handler.NewAnalysisHandler(analysisSvc),
		Rating:   handler.NewRatingHandler(ratingSvc),
		Comment:  handler.NewCommentHandler(commentSvc),
		Chat:     handler.NewChatHandler(chatSvc),
		Blog:     handler.NewBlogHandler(blogSvc),
		Admin:    handler.NewAdminHandler(adminSvc, userSvc),
	}, middleware.NewAuthMiddleware(authSvc))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down server")
		stopWorkers()
		if err := api.Shutdown(10 * time.Second); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	addr := "0.0.0.0:" + configs.GetConfigs().Port
	logger.Info("server listening", "addr", addr)
	if err = api.Start(addr); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
