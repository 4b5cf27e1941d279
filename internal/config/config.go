// Package config provides the structures and loader for the application
// configuration.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the top-level settings container.
type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"smartcomptable.db"`
	UploadsDir  string `yaml:"uploads_dir" env:"UPLOADS_DIR" env-default:"uploads"`
	HTTPServer  `yaml:"http_server"`
	Auth        `yaml:"auth"`
}

// HTTPServer holds the listener settings.
type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Auth holds the administrator credential source and the token settings.
// AdminPassword is read from configuration in this deployment; a production
// deployment points ADMIN_PASSWORD at a real secret store.
type Auth struct {
	AdminPassword string        `yaml:"admin_password" env:"ADMIN_PASSWORD" env-default:"admin123"`
	HashScheme    string        `yaml:"hash_scheme" env-default:"bcrypt"` // bcrypt or legacy
	CookieTTL     time.Duration `yaml:"cookie_ttl" env-default:"720h"`    // 30 days
	SessionTTL    time.Duration `yaml:"session_ttl" env-default:"24h"`    // idle expiry of in-memory sessions
}

// MustLoad reads the config file pointed at by CONFIG_PATH and exits the
// process if it is missing or unreadable.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StoragePath: %s\n"+
			"UploadsDir: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Auth:\n"+
			"  HashScheme: %s\n"+
			"  CookieTTL: %s\n"+
			"  SessionTTL: %s\n",
		c.Env,
		c.StoragePath,
		c.UploadsDir,
		c.Address,
		c.Timeout,
		c.IdleTimeout,
		c.HashScheme,
		c.CookieTTL,
		c.SessionTTL,
	)
}
