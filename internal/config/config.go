package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAdminPassword   = "admin123"
	DefaultCashierPassword = "1234"
)

type Config struct {
	Env                 string
	Port                string
	ShopName            string
	AllowedOrigin       string
	DBDriver            string
	DatabaseURL         string
	DBMaxOpenConns      int
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	SessionSecret       string
	SessionTTL          time.Duration
	CookieSecure        bool
	ReportsDir          string
	Archive             ArchiveConfig
	LogLevel            string
	LogFormat           string
	SeedAdminPassword   string
	SeedCashierPassword string
}

type ArchiveConfig struct {
	Mode         string
	Dir          string
	Bucket       string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("SHOP_NAME", "Salimco Motorcycle Shop")
	v.SetDefault("ALLOWED_ORIGIN", "http://127.0.0.1:8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL_MINUTES", 720)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("REPORTS_DIR", "reports")
	v.SetDefault("ARCHIVE_MODE", "none")
	v.SetDefault("ARCHIVE_DIR", "archive")
	v.SetDefault("ARCHIVE_S3_REGION", "us-east-1")
	v.SetDefault("ARCHIVE_S3_PATH_STYLE", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_ADMIN_PASSWORD", DefaultAdminPassword)
	v.SetDefault("SEED_CASHIER_PASSWORD", DefaultCashierPassword)

	env := strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))
	driver := strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	databaseURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if databaseURL == "" && driver == "sqlite" {
		databaseURL = "pos.db"
	}

	logFormat := strings.ToLower(v.GetString("LOG_FORMAT"))
	if logFormat == "" {
		logFormat = "console"
		if env == "production" {
			logFormat = "json"
		}
	}

	ttl := v.GetInt("SESSION_TTL_MINUTES")
	if ttl < 1 {
		ttl = 720
	}
	maxOpen := v.GetInt("DB_MAX_OPEN_CONNS")
	if maxOpen < 1 {
		maxOpen = 20
	}

	return Config{
		Env:            env,
		Port:           v.GetString("PORT"),
		ShopName:       v.GetString("SHOP_NAME"),
		AllowedOrigin:  v.GetString("ALLOWED_ORIGIN"),
		DBDriver:       driver,
		DatabaseURL:    databaseURL,
		DBMaxOpenConns: maxOpen,
		RedisAddr:      strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		SessionSecret:  strings.TrimSpace(v.GetString("SESSION_SECRET")),
		SessionTTL:     time.Duration(ttl) * time.Minute,
		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		ReportsDir:     v.GetString("REPORTS_DIR"),
		Archive: ArchiveConfig{
			Mode:         strings.ToLower(v.GetString("ARCHIVE_MODE")),
			Dir:          v.GetString("ARCHIVE_DIR"),
			Bucket:       v.GetString("ARCHIVE_S3_BUCKET"),
			Endpoint:     v.GetString("ARCHIVE_S3_ENDPOINT"),
			Region:       v.GetString("ARCHIVE_S3_REGION"),
			AccessKey:    v.GetString("ARCHIVE_S3_ACCESS_KEY"),
			SecretKey:    v.GetString("ARCHIVE_S3_SECRET_KEY"),
			UsePathStyle: v.GetBool("ARCHIVE_S3_PATH_STYLE"),
		},
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           logFormat,
		SeedAdminPassword:   v.GetString("SEED_ADMIN_PASSWORD"),
		SeedCashierPassword: v.GetString("SEED_CASHIER_PASSWORD"),
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}
