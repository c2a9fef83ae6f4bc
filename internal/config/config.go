package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Geocoder struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Timeout int    `yaml:"timeout"` // seconds
	} `yaml:"geocoder"`

	Karma KarmaConfig `yaml:"karma"`

	Matching struct {
		DefaultRadiusKm float64 `yaml:"default_radius_km"`
	} `yaml:"matching"`
}

// KarmaConfig tunes the reputation engine. Weights must sum to 1.0; the
// karma service refuses to compute otherwise.
type KarmaConfig struct {
	RatingWeight      float64 `yaml:"rating_weight"`
	CompletionWeight  float64 `yaml:"completion_weight"`
	ConsistencyWeight float64 `yaml:"consistency_weight"`
	ActivityWeight    float64 `yaml:"activity_weight"`
	CacheTTLSeconds   int     `yaml:"cache_ttl_seconds"`
	DecayDays         float64 `yaml:"decay_days"`
	ActivityWindow    int     `yaml:"activity_window_days"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables when
// DATABASE_URL is present (test/deployment mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment variables")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Geocoder.APIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "no-reply@favorx.app"
	cfg.Email.FromName = "FavorX"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = "https://api.opencagedata.com/geocode/v1/json"
	}
	if cfg.Geocoder.Timeout <= 0 {
		cfg.Geocoder.Timeout = 5
	}
	if cfg.Karma.RatingWeight == 0 && cfg.Karma.CompletionWeight == 0 &&
		cfg.Karma.ConsistencyWeight == 0 && cfg.Karma.ActivityWeight == 0 {
		cfg.Karma.RatingWeight = 0.5
		cfg.Karma.CompletionWeight = 0.2
		cfg.Karma.ConsistencyWeight = 0.15
		cfg.Karma.ActivityWeight = 0.15
	}
	if cfg.Karma.CacheTTLSeconds <= 0 {
		cfg.Karma.CacheTTLSeconds = 3600
	}
	if cfg.Karma.DecayDays <= 0 {
		cfg.Karma.DecayDays = 90
	}
	if cfg.Karma.ActivityWindow <= 0 {
		cfg.Karma.ActivityWindow = 30
	}
	if cfg.Matching.DefaultRadiusKm <= 0 {
		cfg.Matching.DefaultRadiusKm = 10
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
