package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DevJwtSecret is only used when JWT_SECRET is missing outside production.
const DevJwtSecret = "series-guide-dev-secret-change-in-production"

// DefaultLegacyPasswordSalt is the static salt of the pre-bcrypt hashing scheme.
const DefaultLegacyPasswordSalt = "salt-series-guide"

type ConfigStruct struct {
	Port                      string
	Production                bool
	JwtSecret                 string
	LegacyPasswordSalt        string
	WaitForRedisConnectionSec int
	RedisUrl                  string
	RedisPassword             string
	MongodbDatabaseUrl        string
	MongodbDatabaseName       string
	CorsAllowedOrigins        []string
	SentryDns                 string
	SentryRelease             string
	PrintErrors               bool
	CookieSecure              bool
	LogMode                   string
}

var configs = ConfigStruct{}

func GetConfigs() ConfigStruct {
	return configs
}

// SetConfigs replaces the loaded configuration; used by tests and the admin CLI.
func SetConfigs(c ConfigStruct) {
	configs = c
}

func LoadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	configs.Port = os.Getenv("PORT")
	if configs.Port == "" {
		configs.Port = "3000"
	}
	configs.Production = isProduction(os.Getenv("APP_ENV")) || isProduction(os.Getenv("NODE_ENV"))
	configs.JwtSecret = os.Getenv("JWT_SECRET")
	configs.LegacyPasswordSalt = os.Getenv("LEGACY_PASSWORD_SALT")
	if configs.LegacyPasswordSalt == "" {
		configs.LegacyPasswordSalt = DefaultLegacyPasswordSalt
	}
	configs.RedisUrl = os.Getenv("REDIS_URL")
	configs.RedisPassword = os.Getenv("REDIS_PASSWORD")
	configs.MongodbDatabaseUrl = os.Getenv("MONGODB_DATABASE_URL")
	if configs.MongodbDatabaseUrl == "" {
		configs.MongodbDatabaseUrl = os.Getenv("MONGODB_URI")
	}
	configs.MongodbDatabaseName = os.Getenv("MONGODB_DATABASE_NAME")
	if configs.MongodbDatabaseName == "" {
		configs.MongodbDatabaseName = "series_guide"
	}
	configs.WaitForRedisConnectionSec, _ = strconv.Atoi(os.Getenv("WAIT_REDIS_CONNECTION_SEC"))
	configs.CorsAllowedOrigins = splitOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))
	configs.SentryDns = os.Getenv("SENTRY_DNS")
	configs.SentryRelease = os.Getenv("SENTRY_RELEASE")
	configs.PrintErrors = os.Getenv("PRINT_ERRORS") == "true"
	configs.CookieSecure = os.Getenv("COOKIE_SECURE") == "true"
	configs.LogMode = os.Getenv("LOG_MODE")
	if configs.LogMode == "" && configs.Production {
		configs.LogMode = "production"
	}

	if configs.JwtSecret == "" {
		if configs.Production {
			log.Fatalln("JWT_SECRET must be set in production")
		}
		log.Println("JWT_SECRET not set, using insecure development secret")
		configs.JwtSecret = DevJwtSecret
	}
}

func splitOrigins(value string) []string {
	origins := make([]string, 0)
	for _, o := range strings.Split(value, "---") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func isProduction(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "production" || env == "prod"
}
