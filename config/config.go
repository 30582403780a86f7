package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Env          string
	Port         string
	PublicURL    string
	AdminEmails  []string
	NotifyEmails []string // order and contact notification recipients
	CORSOrigins  []string

	JWT        JWT
	DB         DB
	Redis      Redis
	Kafka      Kafka
	SMTP       SMTP
	Outbox     Outbox
	Cloudinary Cloudinary
}

type JWT struct {
	Secret    string
	Issuer    string
	Audience  string
	AccessExp time.Duration
}

type DB struct {
	database.Config
}

type Redis struct {
	Enabled          bool
	Addr             string
	Password         string
	DB               int
	ContactRateLimit time.Duration
}

type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	SSL      bool
	TMPLDir  string
}

type Outbox struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	Retention   time.Duration
}

type Cloudinary struct {
	URL    string
	Folder string
}

const defaultNotifyEmail = "admin@manajel.works"

func Load(log *zap.Logger) *Config {
	admins := splitAndTrim(getEnvDefault("ADMIN_EMAILS", ""))
	return &Config{
		Env:          getEnvDefault("ENV", "production"),
		Port:         getEnv("APP_PORT", log),
		PublicURL:    getEnvDefault("PUBLIC_URL", "http://localhost:3000"),
		AdminEmails:  admins,
		NotifyEmails: notifyEmails(splitAndTrim(os.Getenv("NOTIFY_EMAILS")), admins),
		CORSOrigins:  splitAndTrim(getEnvDefault("CORS_ORIGINS", "*")),
		JWT: JWT{
			Secret:    getEnv("JWT_SECRET", log),
			Issuer:    getEnvDefault("JWT_ISSUER", "manajel-store"),
			Audience:  getEnvDefault("JWT_AUDIENCE", "manajel-web"),
			AccessExp: parseDurationWithDays(getEnvDefault("ACCESS_EXP", "7d")),
		},
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnvDefault("DB_SSLMODE", "disable"),
			},
		},
		Redis: Redis{
			Enabled:          getEnvDefault("REDIS_ENABLED", "false") == "true",
			Addr:             getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password:         getEnvDefault("REDIS_PASSWORD", ""),
			DB:               atoiDefault(getEnvDefault("REDIS_DB", "0"), 0),
			ContactRateLimit: parseDurationWithDays(getEnvDefault("CONTACT_RATE_LIMIT", "1m")),
		},
		Kafka: Kafka{
			Brokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnvDefault("KAFKA_TOPIC_EMAIL", "manajel.email"),
			GroupID: getEnvDefault("KAFKA_GROUP_ID", "manajel-notifier"),
		},
		SMTP: SMTP{
			Host:     getEnvDefault("SMTP_HOST", ""),
			Port:     atoiDefault(getEnvDefault("SMTP_PORT", "465"), 465),
			User:     getEnvDefault("SMTP_USER", ""),
			Password: getEnvDefault("SMTP_PASSWORD", ""),
			From:     getEnvDefault("SMTP_FROM", "Manajel Store <info@manajel.works>"),
			SSL:      getEnvDefault("SMTP_SSL", "true") == "true",
			TMPLDir:  getEnvDefault("TMPL_DIR", ""),
		},
		Outbox: Outbox{
			Interval:    parseDurationWithDays(getEnvDefault("OUTBOX_INTERVAL", "10s")),
			BatchSize:   atoiDefault(getEnvDefault("OUTBOX_BATCH_SIZE", "20"), 20),
			MaxAttempts: atoiDefault(getEnvDefault("OUTBOX_MAX_ATTEMPTS", "10"), 10),
			Retention:   parseDurationWithDays(getEnvDefault("OUTBOX_RETENTION", "7d")),
		},
		Cloudinary: Cloudinary{
			URL:    getEnvDefault("CLOUDINARY_URL", ""),
			Folder: getEnvDefault("CLOUDINARY_FOLDER", "manajel/products"),
		},
	}
}

func (c *Config) IsDev() bool { return c.Env == "development" }

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

// parseDurationWithDays accepts time.ParseDuration input plus a "d" suffix for days.
func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			log.Printf("invalid day duration %q: %v", s, err)
			return 0
		}
		return time.Duration(days) * 24 * time.Hour
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// notifyEmails prefers explicit recipients, then the admin list, then the
// store's default inbox.
func notifyEmails(explicit, admins []string) []string {
	switch {
	case len(explicit) > 0:
		return explicit
	case len(admins) > 0:
		return admins
	default:
		return []string{defaultNotifyEmail}
	}
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
