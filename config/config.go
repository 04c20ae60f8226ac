package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

// Config is decoded from the environment after an optional .env file.
type Config struct {
	Env         string `envconfig:"APP_ENV" default:"dev"`
	Port        string `envconfig:"PORT" default:"8080"`
	CORSOrigins string `envconfig:"CORS_ORIGINS"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`

	// memory, mysql or redis
	StoreDriver string `envconfig:"STORE_DRIVER" default:"memory"`

	MySQLURL string `envconfig:"MYSQL_URL"`
	DBUser   string `envconfig:"DB_USER" default:"root"`
	DBPass   string `envconfig:"DB_PASS"`
	DBHost   string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort   string `envconfig:"DB_PORT" default:"3306"`
	DBName   string `envconfig:"DB_NAME" default:"wiz_homes"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"wiz"`

	// Empty disables booking event publishing.
	RabbitMQURL string `envconfig:"RABBITMQ_URL"`

	JWTSecret  string        `envconfig:"JWT_SECRET"`
	SessionTTL   time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	SessionSweep time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1m"`
	BcryptCost   int           `envconfig:"BCRYPT_COST" default:"10"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@wizhomes.com"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"password"`

	LoginDelay   time.Duration `envconfig:"LOGIN_DELAY" default:"1s"`
	SignupDelay  time.Duration `envconfig:"SIGNUP_DELAY" default:"1500ms"`
	ReserveDelay time.Duration `envconfig:"RESERVE_DELAY" default:"1500ms"`
	NotifyTTL    time.Duration `envconfig:"NOTIFY_TTL" default:"3s"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"uploads"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug(".env not found; using process environment only")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set; generating a random secret, sessions will not survive a restart")
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(b)
	}
	return &cfg, nil
}

// ParseCorsOrigins splits CORS_ORIGINS, defaulting to "*".
func (c *Config) ParseCorsOrigins() []string {
	raw := strings.TrimSpace(c.CORSOrigins)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
