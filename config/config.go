package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage: "mongo" or "memory".
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int           `mapstructure:"REDIS_CACHE_DB"`
	WeekCacheTTL  time.Duration `mapstructure:"WEEK_CACHE_TTL"`
	CacheEnabled  bool          `mapstructure:"CACHE_ENABLED"`

	// Scheduling.
	SlotCapacity    int      `mapstructure:"SLOT_CAPACITY"`
	DefaultTimeZone string   `mapstructure:"DEFAULT_TIMEZONE"`
	TimeSlots       []string `mapstructure:"TIME_SLOTS"`
	SeedTimeSlots   bool     `mapstructure:"SEED_TIME_SLOTS"`

	// Stale appointment sweeper.
	SweepEnabled  bool   `mapstructure:"SWEEP_ENABLED"`
	SweepSchedule string `mapstructure:"SWEEP_SCHEDULE"`
}

var AppConfig Config

// DefaultTimeSlots is the catalog used when TIME_SLOTS is not configured.
var DefaultTimeSlots = []string{
	"08:00-09:00", "09:00-10:00", "10:00-11:00", "11:00-12:00",
	"13:00-14:00", "14:00-15:00", "15:00-16:00", "16:00-17:00",
	"17:00-18:00", "18:00-19:00", "19:00-20:00", "20:00-21:00",
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("STORAGE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "quitcoach")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("WEEK_CACHE_TTL", 10*time.Minute)
	viper.SetDefault("CACHE_ENABLED", true)
	viper.SetDefault("SLOT_CAPACITY", 0)
	viper.SetDefault("DEFAULT_TIMEZONE", "Local")
	viper.SetDefault("TIME_SLOTS", DefaultTimeSlots)
	viper.SetDefault("SEED_TIME_SLOTS", true)
	viper.SetDefault("SWEEP_ENABLED", false)
	viper.SetDefault("SWEEP_SCHEDULE", "@daily")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := AppConfig.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
}

// Validate rejects settings that are only acceptable outside production.
func (c Config) Validate() error {
	if c.Env == "production" && c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves DEFAULT_TIMEZONE, falling back to the host zone.
func Location() *time.Location {
	name := AppConfig.DefaultTimeZone
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Unknown DEFAULT_TIMEZONE %q, using host zone: %v", name, err)
		return time.Local
	}
	return loc
}
