package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"LB_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"LB_DB_MAX_CONNS" default:"8"`

	InsertBatchSize int     `envconfig:"LB_INSERT_BATCH_SIZE" default:"10000"`
	UpdateBatchSize int     `envconfig:"LB_UPDATE_BATCH_SIZE" default:"10000"`
	CheckpointEvery int     `envconfig:"LB_CHECKPOINT_EVERY" default:"100000"`
	SweepChunkSize  int     `envconfig:"LB_SWEEP_CHUNK_SIZE" default:"50000"`
	FilterFPRate    float64 `envconfig:"LB_FILTER_FP_RATE" default:"0.01"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("LB_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("LB_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("LB_DB_MIN_CONNS (%d) cannot exceed LB_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.InsertBatchSize < 1 {
		return fmt.Errorf("LB_INSERT_BATCH_SIZE must be >= 1")
	}
	if c.UpdateBatchSize < 1 {
		return fmt.Errorf("LB_UPDATE_BATCH_SIZE must be >= 1")
	}
	if c.CheckpointEvery < 1 {
		return fmt.Errorf("LB_CHECKPOINT_EVERY must be >= 1")
	}
	if c.SweepChunkSize < 1 {
		return fmt.Errorf("LB_SWEEP_CHUNK_SIZE must be >= 1")
	}
	if c.FilterFPRate <= 0 || c.FilterFPRate >= 1 {
		return fmt.Errorf("LB_FILTER_FP_RATE must be between 0 and 1 exclusive")
	}
	return nil
}
