package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Gemini   Gemini
	Auth     Auth
	Server   Server
	Redis    Redis
	Archive  Archive
	NBA      NBA
	Injuries Injuries
	Refresh  Refresh
}

// Gemini configures the hosted language-model API.
type Gemini struct {
	APIKey string `envconfig:"GEMINI_API_KEY" required:"true"`
	Model  string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
}

// Auth configures the dashboard password gate.
type Auth struct {
	AccessPassword string        `envconfig:"ACCESS_PASSWORD" required:"true"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"12h"`
}

// Server configures the HTTP listeners.
type Server struct {
	RESTPort string `envconfig:"REST_PORT" default:"8080"`
	WSPort   string `envconfig:"WS_PORT" default:"8081"`
}

// Redis configures the cache and event stream connection.
type Redis struct {
	URL string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
}

// Archive configures the optional snapshot archive. An empty DSN disables it.
type Archive struct {
	DSN string `envconfig:"ARCHIVE_DSN" default:""`
}

// NBA configures the stats API client and per-source cache TTLs.
type NBA struct {
	Season      string        `envconfig:"CURRENT_SEASON" default:"2025-26"`
	TeamMapTTL  time.Duration `envconfig:"TEAM_MAP_TTL" default:"24h"`
	DefenseTTL  time.Duration `envconfig:"DEFENSE_TTL" default:"24h"`
	GamesTTL    time.Duration `envconfig:"GAMES_TTL" default:"1h"`
	TrendsTTL   time.Duration `envconfig:"TRENDS_TTL" default:"10m"`
	RequestsPer int           `envconfig:"NBA_REQUESTS_PER_MINUTE" default:"30"`
}

// Injuries configures the injury-report scraper.
type Injuries struct {
	URL string        `envconfig:"INJURIES_URL" default:"https://www.cbssports.com/nba/injuries/"`
	TTL time.Duration `envconfig:"INJURIES_TTL" default:"1h"`
}

// Refresh configures the background cache warmer.
type Refresh struct {
	Enabled       bool          `envconfig:"ENABLE_REFRESH" default:"true"`
	TrendInterval time.Duration `envconfig:"TREND_REFRESH_INTERVAL" default:"10m"`
	DailyHour     int           `envconfig:"DAILY_REFRESH_HOUR" default:"3"`
}

// New loads configuration from the environment, reading .env first if present.
func New() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
