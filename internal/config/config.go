package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"inkbook/internal/storage"
)

type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Form struct {
		DefaultStart string `yaml:"default_start"`
		DefaultEnd   string `yaml:"default_end"`
	} `yaml:"form"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Backup storage.BackupConfig `yaml:"backup"`
}

// Load reads the YAML config. A missing path falls back to the default
// location; a missing file yields the built-in defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		// Support ${ENV_VAR} placeholders in YAML config.
		data = []byte(os.ExpandEnv(string(data)))
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/inkbook.db"
	}
	if cfg.Form.DefaultStart == "" {
		cfg.Form.DefaultStart = "14:00"
	}
	if cfg.Form.DefaultEnd == "" {
		cfg.Form.DefaultEnd = "18:00"
	}
	if cfg.Backup.Path == "" {
		cfg.Backup.Path = "data/backups"
	}
	if cfg.Backup.IntervalHours == 0 {
		cfg.Backup.IntervalHours = 24
	}
	if cfg.Backup.RetentionDays == 0 {
		cfg.Backup.RetentionDays = 14
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}
