package configs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"series_guide/pkg/logger"

	"github.com/getsentry/sentry-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DbConfigData struct {
	Id                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title                  string             `bson:"title" json:"title"`
	CorsAllowedOrigins     []string           `bson:"corsAllowedOrigins" json:"corsAllowedOrigins"`
	DisableRegistration    bool               `bson:"disableRegistration" json:"disableRegistration"`
	ChatMaxMessages        int64              `bson:"chatMaxMessages" json:"chatMaxMessages"`
	ChatCleanupIntervalMin int64              `bson:"chatCleanupIntervalMin" json:"chatCleanupIntervalMin"`
	ChatMessageMaxLength   int                `bson:"chatMessageMaxLength" json:"chatMessageMaxLength"`
	CommentMaxLength       int                `bson:"commentMaxLength" json:"commentMaxLength"`
	TopRatedMinRatings     int64              `bson:"topRatedMinRatings" json:"topRatedMinRatings"`
}

const (
	dbConfigsTitle    = "server configs"
	configsCollection = "configs"
)

func DefaultDbConfigs() DbConfigData {
	return DbConfigData{
		Title:                  dbConfigsTitle,
		CorsAllowedOrigins:     []string{},
		DisableRegistration:    false,
		ChatMaxMessages:        1000,
		ChatCleanupIntervalMin: 10,
		ChatMessageMaxLength:   500,
		CommentMaxLength:       1000,
		TopRatedMinRatings:     5,
	}
}

var rwm sync.RWMutex
var dbConfigs = DefaultDbConfigs()

func GetDbConfigs() DbConfigData {
	rwm.RLock()
	defer rwm.RUnlock()
	return dbConfigs
}

func SetDbConfigs(c DbConfigData) {
	rwm.Lock()
	defer rwm.Unlock()
	dbConfigs = withDefaults(c)
}

func LoadDbConfigs(mongodb *mongo.Database) {
	tick := time.NewTicker(15 * time.Minute)
	defer tick.Stop()
	_ = FetchMongoDbConfigs(mongodb)
	for range tick.C {
		_ = FetchMongoDbConfigs(mongodb)
	}
}

// FetchMongoDbConfigs reloads the dynamic configs; on failure the previous
// values stay in effect.
func FetchMongoDbConfigs(mongodb *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var loaded DbConfigData
	err := mongodb.
		Collection(configsCollection).
		FindOne(ctx, bson.M{"title": dbConfigsTitle}).
		Decode(&loaded)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		errorMessage := fmt.Sprintf("could not get dbConfig from mongodb: %s", err)
		if configs.PrintErrors {
			logger.Error(errorMessage)
		}
		sentry.CaptureException(err)
		return err
	}

	SetDbConfigs(loaded)
	return nil
}

func withDefaults(c DbConfigData) DbConfigData {
	d := DefaultDbConfigs()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.CorsAllowedOrigins == nil {
		c.CorsAllowedOrigins = d.CorsAllowedOrigins
	}
	if c.ChatMaxMessages <= 0 {
		c.ChatMaxMessages = d.ChatMaxMessages
	}
	if c.ChatCleanupIntervalMin <= 0 {
		c.ChatCleanupIntervalMin = d.ChatCleanupIntervalMin
	}
	if c.ChatMessageMaxLength <= 0 {
		c.ChatMessageMaxLength = d.ChatMessageMaxLength
	}
	if c.CommentMaxLength <= 0 {
		c.CommentMaxLength = d.CommentMaxLength
	}
	if c.TopRatedMinRatings <= 0 {
		c.TopRatedMinRatings = d.TopRatedMinRatings
	}
	return c
}
