package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort            string `mapstructure:"APP_PORT"`
	Env                string `mapstructure:"ENV"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin  int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Record source: "file" reads DATA_DIR, "mongo" reads DATABASE_URL.
	RecordSource string `mapstructure:"RECORD_SOURCE"`
	DataDir      string `mapstructure:"DATA_DIR"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Appointment start values are stored as wall-clock time at this fixed offset.
	LocalUTCOffsetHours int `mapstructure:"LOCAL_UTC_OFFSET_HOURS"`

	// External AI providers.
	ProviderTimeout          time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	GoogleServiceAccountFile string        `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	SpeechLanguage           string        `mapstructure:"SPEECH_LANGUAGE"`
	SpeechModel              string        `mapstructure:"SPEECH_MODEL"`
	SpeechMaxSpeakers        int           `mapstructure:"SPEECH_MAX_SPEAKERS"`
	GeminiAPIKey             string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel              string        `mapstructure:"GEMINI_MODEL"`
	SummaryTemperature       float32       `mapstructure:"SUMMARY_TEMPERATURE"`
	MaxAudioBytes            int64         `mapstructure:"MAX_AUDIO_BYTES"`

	// Redis configuration.
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB    int           `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB    int           `mapstructure:"REDIS_QUEUE_DB"`
	SummaryCacheTTL time.Duration `mapstructure:"SUMMARY_CACHE_TTL"`

	EmailQueueEnabled bool `mapstructure:"EMAIL_QUEUE_ENABLED"`

	// Cloudinary archive for consultation audio, disabled when empty.
	CloudinaryURL      string `mapstructure:"CLOUDINARY_URL"`
	AudioArchiveFolder string `mapstructure:"AUDIO_ARCHIVE_FOLDER"`
}

var AppConfig Config

// LoadConfig reads .env, config.yaml and the environment into AppConfig.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return err
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RECORD_SOURCE", "file")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "beamhealth")
	v.SetDefault("LOCAL_UTC_OFFSET_HOURS", -5)
	v.SetDefault("PROVIDER_TIMEOUT", 120*time.Second)
	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	v.SetDefault("SPEECH_LANGUAGE", "en-US")
	v.SetDefault("SPEECH_MODEL", "default")
	v.SetDefault("SPEECH_MAX_SPEAKERS", 2)
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	v.SetDefault("SUMMARY_TEMPERATURE", 0.3)
	v.SetDefault("MAX_AUDIO_BYTES", 10*1024*1024)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("SUMMARY_CACHE_TTL", 24*time.Hour)
	v.SetDefault("EMAIL_QUEUE_ENABLED", false)
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("AUDIO_ARCHIVE_FOLDER", "consultations")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// RedisEnabled reports whether a Redis address has been configured.
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
