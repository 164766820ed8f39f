package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strings"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; see LoadConfig for names and defaults.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBDriver string // "mysql" or "sqlite"
	DBUser   string
	DBPass   string // may be empty
	DBHost   string
	DBPort   string
	DBName   string // required for mysql
	DBPath   string // sqlite file

	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	ContactEmail string // where contact notifications are delivered

	SlackWebhookURL string
	RabbitMQURL     string // broker is disabled when empty

	CORSOrigins      []string
	SiteBaseURL      string
	SitemapPagesFile string

	LogoDir        string
	MaxUploadBytes int64
}

// Load reads configuration values from environment variables and returns a
// Config. Missing required variables cause the program to exit with a fatal
// log message.
func Load() Config {
	cfg := LoadConfig()
	cfg.JWTSecret = must("JWT_SECRET")
	if cfg.DBDriver == "mysql" {
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// LoadConfig is Load without the required-variable checks, so callers (and
// tests) can validate on their own.
func LoadConfig() Config {
	return Config{
		Env:  getenv("APP_ENV", "dev"),
		Port: getenv("APP_PORT", "8001"),

		DBDriver: strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DBUser:   getenv("DB_USER", "root"),
		DBPass:   os.Getenv("DB_PASS"),
		DBHost:   getenv("DB_HOST", "127.0.0.1"),
		DBPort:   getenv("DB_PORT", "3306"),
		DBName:   os.Getenv("DB_NAME"),
		DBPath:   getenv("DB_PATH", "data/site.db"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 30),
		BcryptCost:   envInt("BCRYPT_COST", 10),

		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		ContactEmail: getenv("CONTACT_EMAIL", "info@techresona.com"),

		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),

		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "*")),
		SiteBaseURL:      strings.TrimRight(getenv("SITE_BASE_URL", "https://techresona.com"), "/"),
		SitemapPagesFile: os.Getenv("SITEMAP_PAGES_FILE"),

		LogoDir:        getenv("LOGO_DIR", "public"),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 10<<20)),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
