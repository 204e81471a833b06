package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/smallbiznis/stokra/pkg/db"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Provide(Load, ProvideDBConfig)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPPort    string

	DefaultTenantID int64

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_SERVICE", "stokra")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DATABASE_TYPE", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "stokra")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_IDLE_CONN", 2)
	v.SetDefault("DATABASE_MAX_OPEN_CONN", 10)

	return Config{
		AppName:           v.GetString("APP_SERVICE"),
		AppVersion:        v.GetString("APP_VERSION"),
		Environment:       v.GetString("ENVIRONMENT"),
		HTTPPort:          v.GetString("HTTP_PORT"),
		DefaultTenantID:   v.GetInt64("DEFAULT_TENANT"),
		DBType:            v.GetString("DATABASE_TYPE"),
		DBHost:            v.GetString("DATABASE_HOST"),
		DBPort:            v.GetString("DATABASE_PORT"),
		DBName:            v.GetString("DATABASE_NAME"),
		DBUser:            v.GetString("DATABASE_USER"),
		DBPassword:        v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:         v.GetString("DATABASE_SSLMODE"),
		DBMaxIdleConn:     v.GetInt("DATABASE_MAX_IDLE_CONN"),
		DBMaxOpenConn:     v.GetInt("DATABASE_MAX_OPEN_CONN"),
		DBConnMaxLifetime: v.GetInt("DATABASE_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: v.GetInt("DATABASE_CONN_MAX_IDLE_TIME"),
	}
}

func ProvideDBConfig(cfg Config) db.Config {
	return db.Config{
		Type:            cfg.DBType,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		SSLMode:         cfg.DBSSLMode,
		MaxIdleConn:     cfg.DBMaxIdleConn,
		MaxOpenConn:     cfg.DBMaxOpenConn,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	}
}
