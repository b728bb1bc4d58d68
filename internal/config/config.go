package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
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
		URL string `yaml:"url"`
	} `yaml:"redis"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	App struct {
		// PublicURL is the externally reachable base URL, used for
		// one-click approval links in emails. Startup fails without it.
		PublicURL          string `yaml:"public_url"`
		FirstAdminEmail    string `yaml:"first_admin_email"`
		FirstAdminPassword string `yaml:"first_admin_password"`
		FirstAdminName     string `yaml:"first_admin_name"`
	} `yaml:"app"`

	Presence struct {
		// TTLSeconds is how long a redis presence key stays live after
		// the last heartbeat.
		TTLSeconds int `yaml:"ttl_seconds"`
	} `yaml:"presence"`

	Outbox struct {
		PollSeconds int `yaml:"poll_seconds"`
		MaxAttempts int `yaml:"max_attempts"`
	} `yaml:"outbox"`
}

var AppConfig *Config

// LoadConfig populates AppConfig from config.yaml, letting environment
// variables override. When DATABASE_URL is set the YAML file is skipped
// entirely (test mode).
func LoadConfig() {
	var cfg Config

	// .env is optional; real deployments export variables directly.
	_ = godotenv.Load()

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
	} else {
		cfg.Database.DSN = dbURL
		cfg.Server.Env = os.Getenv("SERVER_ENV")
		cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		cfg.JWT.TTL = 60

		cfg.Email.SMTPHost = "smtp.test.com"
		cfg.Email.SMTPPort = 587
		cfg.Email.FromEmail = "test@parishlink.org"
		cfg.Email.FromName = "ParishLink"
		cfg.App.PublicURL = "http://localhost:4000"
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.App.PublicURL == "" {
		log.Fatal("PUBLIC_APP_URL (app.public_url) is required and not set")
	}

	AppConfig = &cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PUBLIC_APP_URL"); v != "" {
		cfg.App.PublicURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}
	if v := os.Getenv("FIRST_ADMIN_EMAIL"); v != "" {
		cfg.App.FirstAdminEmail = v
	}
	if v := os.Getenv("FIRST_ADMIN_PASSWORD"); v != "" {
		cfg.App.FirstAdminPassword = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Presence.TTLSeconds == 0 {
		cfg.Presence.TTLSeconds = 90
	}
	if cfg.Outbox.PollSeconds == 0 {
		cfg.Outbox.PollSeconds = 15
	}
	if cfg.Outbox.MaxAttempts == 0 {
		cfg.Outbox.MaxAttempts = 5
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
