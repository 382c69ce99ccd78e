package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yaml"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

type StoreConfig struct {
	Driver        string `config:"driver"`
	MongoURI      string `config:"mongo_uri"`
	MongoDatabase string `config:"mongo_database"`
	PostgresURI   string `config:"postgres_uri"`
}

type EventsConfig struct {
	MQTTURL     string `config:"mqtt_url"`
	MQTTClient  string `config:"mqtt_client_id"`
	PulsarURL   string `config:"pulsar_url"`
	PulsarTopic string `config:"pulsar_topic"`
	// QueueSize bounds the events waiting for the brokers.
	QueueSize int `config:"queue_size"`
}

type Config struct {
	Env          string       `config:"env"`
	Port         string       `config:"port"`
	JWTSecret    string       `config:"jwt_secret"`
	TokenTTLDays int          `config:"token_ttl_days"`
	PageLimit    int          `config:"page_limit"`
	CORSOrigins  string       `config:"cors_origins"`
	Store        StoreConfig  `config:"store"`
	Events       EventsConfig `config:"events"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Env:          EnvDevelopment,
		Port:         "3000",
		TokenTTLDays: 60,
		PageLimit:    20,
		CORSOrigins:  "*",
		Store: StoreConfig{
			Driver:        "mongo",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "todolists",
		},
		Events: EventsConfig{
			MQTTClient:  "todolist-api",
			PulsarTopic: "todolist-events",
			QueueSize:   256,
		},
	}
}

// LoadENV loads variables from a .env file if there is one.
func LoadENV() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Load reads .env, then path and its .local variant when they exist, then
// the well-known environment variables.
func Load(path string) (*Config, error) {
	if err := LoadENV(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		c := config.New("todolist-api")
		c.WithOptions(func(opt *config.Options) {
			opt.ParseEnv = true
			opt.DecoderConfig.TagName = "config"
		})
		c.AddDriver(yaml.Driver)

		if err := c.LoadExists(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		if err := c.LoadExists(localPath(path)); err != nil {
			return nil, fmt.Errorf("load %s: %w", localPath(path), err)
		}

		if !c.IsEmpty() {
			if err := c.BindStruct("", cfg); err != nil {
				return nil, fmt.Errorf("bind config: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func localPath(path string) string {
	for _, ext := range []string{".yml", ".yaml"} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext) + ".local" + ext
		}
	}
	return path + ".local"
}

func applyEnv(cfg *Config) {
	set := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}

	set("APP_ENV", &cfg.Env)
	set("PORT", &cfg.Port)
	set("JWT_SECRET", &cfg.JWTSecret)
	set("CORS_ORIGINS", &cfg.CORSOrigins)
	set("STORE_DRIVER", &cfg.Store.Driver)
	set("MONGO_URI", &cfg.Store.MongoURI)
	set("MONGO_DATABASE", &cfg.Store.MongoDatabase)
	set("POSTGRESQL_URI", &cfg.Store.PostgresURI)
	set("MQTT_URL", &cfg.Events.MQTTURL)
	set("PULSAR_URL", &cfg.Events.PulsarURL)
	set("PULSAR_TOPIC", &cfg.Events.PulsarTopic)

	if v, err := strconv.Atoi(os.Getenv("TOKEN_TTL_DAYS")); err == nil && v > 0 {
		cfg.TokenTTLDays = v
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}

	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("you must set your 'JWT_SECRET' environmental variable in production")
	}

	switch c.Store.Driver {
	case "mongo":
		if c.Store.MongoURI == "" {
			return errors.New("you must set your 'MONGO_URI' environmental variable")
		}
	case "postgres":
		if c.Store.PostgresURI == "" {
			return errors.New("you must set your 'POSTGRESQL_URI' environmental variable")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.TokenTTLDays <= 0 {
		return errors.New("token_ttl_days must be positive")
	}
	if c.PageLimit <= 0 {
		return errors.New("page_limit must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLDays) * 24 * time.Hour
}
