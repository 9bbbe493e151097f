package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	App           AppConfig
	Static        StaticConfig
	GitHub        GitHubConfig
	Reviews       ReviewsConfig
	Redis         RedisConfig
	ProjectsCache ProjectsCacheConfig
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type AppConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	Version     string
}

type StaticConfig struct {
	Dir            string
	BackgroundsDir string
}

type GitHubConfig struct {
	APIURL    string
	Org       string
	UserAgent string
	Token     string
	Timeout   time.Duration
}

type ReviewsConfig struct {
	URL     string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

type ProjectsCacheConfig struct {
	TTL             time.Duration
	RefreshSchedule string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("SERVICE_NAME", "reagent-site-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_VERSION", "1.0.0")

	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("BACKGROUNDS_DIR", "")

	v.SetDefault("GITHUB_API_URL", "https://api.github.com")
	v.SetDefault("GITHUB_ORG", "reagent-systems")
	v.SetDefault("GITHUB_USER_AGENT", "reagent-site-3")
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("UPSTREAM_TIMEOUT", 10*time.Second)

	v.SetDefault("REVIEWS_URL", "")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PROJECTS_CACHE_TTL", time.Hour)
	v.SetDefault("PROJECTS_REFRESH_SCHEDULE", "@every 30m")
}

// FromViper builds a validated Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	port := strings.TrimSpace(v.GetString("PORT"))
	upstreamTimeout := v.GetDuration("UPSTREAM_TIMEOUT")

	reviewsURL := strings.TrimSpace(v.GetString("REVIEWS_URL"))
	if reviewsURL == "" && port != "" {
		reviewsURL = fmt.Sprintf("http://127.0.0.1:%s/reviews.json", port)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            port,
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
			CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		},
		App: AppConfig{
			ServiceName: v.GetString("SERVICE_NAME"),
			Environment: v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			Version:     v.GetString("APP_VERSION"),
		},
		Static: StaticConfig{
			Dir:            v.GetString("STATIC_DIR"),
			BackgroundsDir: v.GetString("BACKGROUNDS_DIR"),
		},
		GitHub: GitHubConfig{
			APIURL:    strings.TrimRight(v.GetString("GITHUB_API_URL"), "/"),
			Org:       v.GetString("GITHUB_ORG"),
			UserAgent: v.GetString("GITHUB_USER_AGENT"),
			Token:     v.GetString("GITHUB_TOKEN"),
			Timeout:   upstreamTimeout,
		},
		Reviews: ReviewsConfig{
			URL:     reviewsURL,
			Timeout: upstreamTimeout,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		ProjectsCache: ProjectsCacheConfig{
			TTL:             v.GetDuration("PROJECTS_CACHE_TTL"),
			RefreshSchedule: v.GetString("PROJECTS_REFRESH_SCHEDULE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	if c.GitHub.APIURL == "" {
		return fmt.Errorf("GITHUB_API_URL is required")
	}

	if c.GitHub.Org == "" {
		return fmt.Errorf("GITHUB_ORG is required")
	}

	if c.GitHub.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	if c.Redis.Enabled() && c.ProjectsCache.TTL <= 0 {
		return fmt.Errorf("PROJECTS_CACHE_TTL must be positive when REDIS_ADDR is set")
	}

	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
