package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cartesi/pos-dlib/core"
)

// TLSConfig holds PEM paths for the RPC listener. With CACert set, clients
// must present a certificate signed by it.
type TLSConfig struct {
	CACert string `yaml:"ca_cert"`
	Cert   string `yaml:"cert"`
	Key    string `yaml:"key"`
}

// RPCConfig configures the JSON-RPC endpoint.
type RPCConfig struct {
	Addr      string     `yaml:"addr"`
	AuthToken string     `yaml:"auth_token"` // empty → no auth required
	TLS       *TLSConfig `yaml:"tls,omitempty"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty → stderr
}

// Config holds all reactor configuration.
type Config struct {
	DataDir  string               `yaml:"data_dir"`
	Workers  int                  `yaml:"workers"` // concurrent evaluations in batch mode; 0 → 1
	RPC      RPCConfig            `yaml:"rpc"`
	Logging  LoggingConfig        `yaml:"logging"`
	Services []core.ServiceStatus `yaml:"services,omitempty"` // seeded into the archive on start
}

// DefaultConfig returns a single-node development configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Workers: 4,
		RPC: RPCConfig{
			Addr: ":8645",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML config file from path over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	for i, s := range c.Services {
		if s.ServiceName == "" {
			return fmt.Errorf("services[%d]: service_name required", i)
		}
	}
	return nil
}

// Save writes the config to path as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
