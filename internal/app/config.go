package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/envutil"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port string

	DB db.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisChannel  string

	AllowedOrigins []string

	AdminEmail    string
	AdminPassword string

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	driver := strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres, log))
	dsn := ""
	switch driver {
	case db.DriverSQLite:
		dsn = envutil.String("SQLITE_PATH", "roadmap.db", log)
	default:
		dsn = envutil.String("DATABASE_URL", "", log)
		if dsn == "" {
			dsn = db.PostgresDSN(
				envutil.String("POSTGRES_HOST", "localhost", log),
				envutil.String("POSTGRES_PORT", "5432", log),
				envutil.String("POSTGRES_USER", "postgres", log),
				envutil.String("POSTGRES_PASSWORD", "", log),
				envutil.String("POSTGRES_NAME", "roadmap", log),
			)
		}
	}

	cfg := Config{
		Port:           envutil.String("PORT", "8080", log),
		DB:             db.Config{Driver: driver, DSN: dsn},
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", defaultJWTSecret, log),
		AccessTokenTTL: envutil.Seconds("JWT_TTL", 8*time.Hour, log),
		RedisAddr:      envutil.String("REDIS_ADDR", "", log),
		RedisPassword:  envutil.String("REDIS_PASSWORD", "", log),
		RedisChannel:   envutil.String("REDIS_CHANNEL", "roadmap-sse", log),
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
		AdminEmail:     envutil.String("ADMIN_EMAIL", "", log),
		AdminPassword:  envutil.String("ADMIN_PASSWORD", "", log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "roadmap-backend", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			SampleRatio: parseRatio(envutil.String("OTEL_SAMPLER_RATIO", "1", log), log),
		},
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	return cfg
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%s", strings.TrimPrefix(c.Port, ":"))
}

func parseRatio(raw string, log *logger.Logger) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		log.Warn("Invalid OTEL_SAMPLER_RATIO, sampling everything", "value", raw)
		return 1
	}
	return v
}
