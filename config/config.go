package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/jsphweid/chordstave/db"
)

//go:embed config.example.toml
var exampleConf []byte

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`
	Analysis AnalysisConfig `toml:"analysis"`
	Render   RenderConfig   `toml:"render"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Host                   string   `toml:"host"`
	Port                   int      `toml:"port"`
	CORSOrigins            []string `toml:"cors_origins"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
}

type StoreConfig struct {
	Driver   string `toml:"driver"`
	Path     string `toml:"path"`
	Endpoint string `toml:"endpoint"`
	Region   string `toml:"region"`
	Table    string `toml:"table"`
}

type AnalysisConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type RenderConfig struct {
	Title        string `toml:"title"`
	ColourVoices bool   `toml:"colour_voices"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration embedded in config.example.toml.
func Default() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Load layers the TOML file at path (optional) over the defaults, loads
// envFile into the environment (".env" when empty, silently skipped if
// missing) and finally applies CHORDSTAVE_* environment overrides.
func Load(path, envFile string) (*Config, error) {
	config := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if envFile == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CHORDSTAVE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHORDSTAVE_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("CHORDSTAVE_STORE"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("CHORDSTAVE_DB_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("DYNAMODB_ENDPOINT"); v != "" {
		c.Store.Endpoint = v
	}
	if v := os.Getenv("CHORDSTAVE_ANALYSIS_URL"); v != "" {
		c.Analysis.URL = v
	}
	if v := os.Getenv("CHORDSTAVE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

func (c *Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.Analysis.TimeoutSeconds) * time.Second
}

// StoreOptions converts the store section for db.New.
func (c *Config) StoreOptions() db.Options {
	return db.Options{
		Driver:   c.Store.Driver,
		Path:     c.Store.Path,
		Endpoint: c.Store.Endpoint,
		Region:   c.Store.Region,
		Table:    c.Store.Table,
	}
}

// WriteExample writes the default configuration to path, refusing to
// overwrite an existing file.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
