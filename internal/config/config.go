package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	defaultPath = "config/local.yaml"
)

type Config struct {
	Env          string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP         HTTPConfig    `yaml:"http"`
	Storage      StorageConfig `yaml:"storage"`
	PollDuration time.Duration `yaml:"poll_duration" env:"POLL_DURATION" env-default:"2h"`
	JWTSecret    string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	WS           WSConfig      `yaml:"ws"`
}

// HTTPConfig.ClientOrigins restricts CORS and WebSocket origins; empty allows any.
type HTTPConfig struct {
	Port          int      `yaml:"port" env:"HTTP_PORT" env-default:"3000"`
	ClientOrigins []string `yaml:"client_origins" env:"HTTP_CLIENT_ORIGINS"`
}

type StorageConfig struct {
	Driver        string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	PostgresURL   string        `yaml:"postgres_url" env:"STORAGE_POSTGRES_URL"`
	PurgeInterval time.Duration `yaml:"purge_interval" env:"STORAGE_PURGE_INTERVAL" env-default:"1m"`
}

type WSConfig struct {
	PingInterval time.Duration `yaml:"ping_interval" env:"WS_PING_INTERVAL" env-default:"30s"`
	SendBuffer   int           `yaml:"send_buffer" env:"WS_SEND_BUFFER" env-default:"16"`
}

// Load reads the config or exits.
func Load(path string) *Config {
	cfg, err := Read(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func Read(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Storage.PostgresURL == "" {
			return nil, fmt.Errorf("storage.postgres_url is required for driver %q", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.PollDuration <= 0 {
		return nil, fmt.Errorf("poll_duration must be positive, got %s", cfg.PollDuration)
	}

	return &cfg, nil
}

// Path resolves the config file: CONFIG_PATH wins over the -config flag.
func Path() string {
	var path string
	flag.StringVar(&path, "config", defaultPath, "path to config file")
	flag.Parse()

	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return path
}
