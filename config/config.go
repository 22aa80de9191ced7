// Package config loads the run configuration: the table list and the
// connection parameters for each side.
package config

import (
	"fmt"
	"os"

	db "dbstash/database"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHost         = "localhost"
	DefaultMySQLPort    = 3306
	DefaultPostgresPort = 5432
)

type Config struct {
	Tables  []string  `yaml:"tables"`
	Backup  db.Config `yaml:"backup"`
	Restore db.Config `yaml:"restore"`
}

// Load reads and validates the configuration file. Any problem here is
// fatal before a connection is attempted.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("configuration file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("configuration file %s is not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %v", path, err)
	}
	if len(cfg.Tables) == 0 {
		return nil, fmt.Errorf("%s: no tables configured", path)
	}

	applyDefaults(&cfg.Backup)
	applyDefaults(&cfg.Restore)
	return &cfg, nil
}

func applyDefaults(c *db.Config) {
	if c.Driver == "" {
		c.Driver = "mysql"
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		if c.Driver == "postgres" {
			c.Port = DefaultPostgresPort
		} else {
			c.Port = DefaultMySQLPort
		}
	}
}

// Validate checks the fields a side needs before connecting. Only the sides
// actually selected on the command line are validated.
func Validate(side string, c db.Config) error {
	if c.User == "" {
		return fmt.Errorf("%s: user is required", side)
	}
	if c.Database == "" {
		return fmt.Errorf("%s: database is required", side)
	}
	return nil
}
