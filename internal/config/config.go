package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	Tracking  TrackingConfig  `mapstructure:"tracking"`
	Reminders RemindersConfig `mapstructure:"reminders"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// TrackingConfig tunes the workout session engine. The GPS filters must not
// be finer than the device's GPS noise floor or route jitter inflates the
// measured distance.
type TrackingConfig struct {
	TickPeriod     time.Duration `mapstructure:"tick_period"`
	GPSInterval    time.Duration `mapstructure:"gps_interval"`
	GPSMinDistance float64       `mapstructure:"gps_min_distance"` // meters
	DefaultGoal    int           `mapstructure:"default_goal"`     // steps per day
	Simulate       bool          `mapstructure:"simulate"`         // attach a simulated walker to sessions
}

// RemindersConfig schedules the daily step-goal reminder.
type RemindersConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Hour    int  `mapstructure:"hour"`
	Minute  int  `mapstructure:"minute"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// Nested keys map to env vars with underscores, e.g. server.address ->
	// SERVER_ADDRESS, tracking.gps_interval -> TRACKING_GPS_INTERVAL.
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "greensteps")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("tracking.tick_period", "1s")
	viper.SetDefault("tracking.gps_interval", "2s")
	viper.SetDefault("tracking.gps_min_distance", 5.0)
	viper.SetDefault("tracking.default_goal", 10000)
	viper.SetDefault("tracking.simulate", false)
	viper.SetDefault("reminders.enabled", true)
	viper.SetDefault("reminders.hour", 20)
	viper.SetDefault("reminders.minute", 0)

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No config file is fine; defaults and env vars carry the day.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
