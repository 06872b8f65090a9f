package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs  `toml:"database"`
	ApiServer APIServerConfigs `toml:"api_server"`
	Auth      AuthConfigs      `toml:"auth"`
	Redis     RedisConfigs     `toml:"redis"`
	Kafka     KafkaConfigs     `toml:"kafka"`
	Feed      FeedConfigs      `toml:"feed"`
	Log       LogConfigs       `toml:"log"`
}

type DatabaseConfigs struct {
	// Driver is one of mysql, postgres or sqlite.
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`

	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	SlowThreshold   time.Duration `toml:"slow_threshold"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			d.Host,
			d.Port,
			d.User,
			d.Password,
			d.Database,
		)
	case "sqlite":
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User,
			d.Password,
			d.Host,
			d.Port,
			d.Database,
		)
	}
}

type APIServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`

	AllowedOrigins []string `toml:"allowed_origins"`
}

func (c APIServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfigs struct {
	// UserIDHeader is the header in which the identity provider puts the
	// verified user id.
	UserIDHeader string `toml:"user_id_header"`
}

type RedisConfigs struct {
	Enable bool   `toml:"enable"`
	Addr   string `toml:"addr"`
}

type KafkaConfigs struct {
	Enable   bool     `toml:"enable"`
	Addrs    []string `toml:"addrs"`
	ClientID string   `toml:"client_id"`
	Topic    string   `toml:"topic"`
}

type FeedConfigs struct {
	PageSize int           `toml:"page_size"`
	CacheTTL time.Duration `toml:"cache_ttl"`

	// MaxCandidates bounds how many recent posts are ranked per request. Zero
	// ranks every candidate.
	MaxCandidates int `toml:"max_candidates"`
}

type LogConfigs struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

func Default() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            "3306",
			Database:        "forum",
			User:            "root",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			SlowThreshold:   200 * time.Millisecond,
		},
		ApiServer: APIServerConfigs{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			UserIDHeader: "X-User-ID",
		},
		Redis: RedisConfigs{
			Addr: "localhost:6379",
		},
		Kafka: KafkaConfigs{
			Addrs:    []string{"localhost:9092"},
			ClientID: "forum-api",
			Topic:    "forum.relationship",
		},
		Feed: FeedConfigs{
			PageSize: 50,
			CacheTTL: 30 * time.Second,
		},
		Log: LogConfigs{
			Level: "info",
		},
	}
}

// Load reads the configurations. Values are resolved in this order: the
// defaults, the toml file at path (skipped if path is empty), then FORUM_*
// environment variables.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	if err := overrideFromEnv(&cfg); err != nil {
		return cfg, err
	}

	if cfg.Feed.PageSize <= 0 {
		return cfg, fmt.Errorf("feed page size must be positive, got %d", cfg.Feed.PageSize)
	}

	return cfg, nil
}

func overrideFromEnv(cfg *Configs) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("FORUM_ENV", &cfg.Env)
	setString("FORUM_DB_DRIVER", &cfg.Database.Driver)
	setString("FORUM_DB_HOST", &cfg.Database.Host)
	setString("FORUM_DB_PORT", &cfg.Database.Port)
	setString("FORUM_DB_NAME", &cfg.Database.Database)
	setString("FORUM_DB_USER", &cfg.Database.User)
	setString("FORUM_DB_PASSWORD", &cfg.Database.Password)
	setString("FORUM_API_HOST", &cfg.ApiServer.Host)
	setString("FORUM_API_PORT", &cfg.ApiServer.Port)
	setString("FORUM_USER_ID_HEADER", &cfg.Auth.UserIDHeader)
	setString("FORUM_REDIS_ADDR", &cfg.Redis.Addr)
	setString("FORUM_KAFKA_TOPIC", &cfg.Kafka.Topic)
	setString("FORUM_LOG_LEVEL", &cfg.Log.Level)

	if v, ok := os.LookupEnv("FORUM_KAFKA_ADDRS"); ok {
		cfg.Kafka.Addrs = strings.Split(v, ",")
	}

	for key, dst := range map[string]*bool{
		"FORUM_REDIS_ENABLE": &cfg.Redis.Enable,
		"FORUM_KAFKA_ENABLE": &cfg.Kafka.Enable,
	} {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = b
		}
	}

	if v, ok := os.LookupEnv("FORUM_FEED_PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FORUM_FEED_PAGE_SIZE: %w", err)
		}
		cfg.Feed.PageSize = n
	}

	if v, ok := os.LookupEnv("FORUM_FEED_CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FORUM_FEED_CACHE_TTL: %w", err)
		}
		cfg.Feed.CacheTTL = d
	}

	return nil
}
