// Package config loads cadence settings from defaults, an optional YAML
// file, an optional .env file and CADENCE_* environment variables, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	DBPath               string   `yaml:"db_path"`
	HTTPAddr             string   `yaml:"http_addr"`
	ChecklistBackend     string   `yaml:"checklist_backend"`
	RedisAddr            string   `yaml:"redis_addr"`
	RedisKeyPrefix       string   `yaml:"redis_key_prefix"`
	ChecklistSeedPath    string   `yaml:"checklist_seed_path"`
	ChecklistConcurrency int      `yaml:"checklist_concurrency"`
	ChecklistRetries     int      `yaml:"checklist_retries"`
	LogUseCases          bool     `yaml:"log_use_cases"`
	CORSOrigins          []string `yaml:"cors_origins"`
}

// DefaultConfig returns a Config with sensible defaults. The database lives
// under ~/.cadence when the home directory is known.
func DefaultConfig() Config {
	dbPath := filepath.Join(".cadence", "cadence.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".cadence", "cadence.db")
	}
	return Config{
		DBPath:               dbPath,
		HTTPAddr:             ":8080",
		ChecklistBackend:     BackendSQLite,
		RedisKeyPrefix:       "cadence:checklists",
		ChecklistConcurrency: 4,
		ChecklistRetries:     2,
	}
}

// Load layers the YAML file named by CADENCE_CONFIG, then dotEnvPath, then
// the process environment over the defaults. Missing files are skipped.
// Variables already set in the environment win over .env entries.
func Load(dotEnvPath string) (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("CADENCE_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return cfg, fmt.Errorf("loading %s: %w", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("checking %s: %w", dotEnvPath, err)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CADENCE_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("CADENCE_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("CADENCE_CHECKLIST_BACKEND"); v != "" {
		c.ChecklistBackend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("CADENCE_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("CADENCE_REDIS_KEY_PREFIX"); v != "" {
		c.RedisKeyPrefix = v
	}
	if v := os.Getenv("CADENCE_CHECKLIST_SEED"); v != "" {
		c.ChecklistSeedPath = v
	}
	if v := os.Getenv("CADENCE_CHECKLIST_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ChecklistConcurrency = n
		}
	}
	if v := os.Getenv("CADENCE_CHECKLIST_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.ChecklistRetries = n
		}
	}
	if v := os.Getenv("CADENCE_LOG_USE_CASES"); v != "" {
		c.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CADENCE_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.ChecklistBackend {
	case BackendSQLite:
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("checklist backend %q needs a redis address (CADENCE_REDIS_ADDR)", c.ChecklistBackend)
		}
	default:
		return fmt.Errorf("unknown checklist backend %q (use %s or %s)", c.ChecklistBackend, BackendSQLite, BackendRedis)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is empty")
	}
	return nil
}
