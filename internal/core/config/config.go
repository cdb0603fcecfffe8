package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aevon-lab/sparkify-dwh/internal/schema"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides: DWH_CLUSTER__DB_PASSWORD sets cluster.db_password.
const EnvPrefix = "DWH_"

// Config is the process configuration, built once at startup.
type Config struct {
	Cluster   ClusterConfig   `koanf:"cluster"`
	S3        S3Config        `koanf:"s3"`
	IAMRole   IAMRoleConfig   `koanf:"iam_role"`
	Warehouse WarehouseConfig `koanf:"warehouse"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

type ClusterConfig struct {
	Host       string `koanf:"host"`
	DBName     string `koanf:"db_name"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBPort     int    `koanf:"db_port"`
}

type S3Config struct {
	LogData     string `koanf:"log_data"`
	LogJSONPath string `koanf:"log_jsonpath"`
	SongData    string `koanf:"song_data"`
	Region      string `koanf:"region"`
	Preflight   bool   `koanf:"preflight"` // list/head the sources before COPY
}

type IAMRoleConfig struct {
	ARN string `koanf:"arn"`
}

type WarehouseConfig struct {
	Dialect        string        `koanf:"dialect"` // redshift | postgres
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

type MetricsConfig struct {
	PushgatewayURL string `koanf:"pushgateway_url"` // empty disables pushing
	Job            string `koanf:"job"`
}

// ConnectionString assembles a libpq key/value DSN with host, dbname, user,
// password and port in that order.
func (c ClusterConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s dbname=%s user=%s password=%s port=%d",
		quoteDSNValue(c.Host),
		quoteDSNValue(c.DBName),
		quoteDSNValue(c.DBUser),
		quoteDSNValue(c.DBPassword),
		c.DBPort,
	)
}

// quoteDSNValue single-quotes values libpq would otherwise split or misread.
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n'\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Dialect returns the parsed warehouse dialect.
func (c *Config) Dialect() schema.Dialect {
	d, err := schema.ParseDialect(c.Warehouse.Dialect)
	if err != nil {
		return schema.DialectRedshift
	}
	return d
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Cluster.Host) == "" {
		return fmt.Errorf("cluster.host is required")
	}
	if strings.TrimSpace(c.Cluster.DBName) == "" {
		return fmt.Errorf("cluster.db_name is required")
	}
	if strings.TrimSpace(c.Cluster.DBUser) == "" {
		return fmt.Errorf("cluster.db_user is required")
	}
	if c.Cluster.DBPort <= 0 || c.Cluster.DBPort > 65535 {
		return fmt.Errorf("invalid cluster.db_port %d (must be 1-65535)", c.Cluster.DBPort)
	}

	for _, loc := range []struct{ key, value string }{
		{"s3.log_data", c.S3.LogData},
		{"s3.log_jsonpath", c.S3.LogJSONPath},
		{"s3.song_data", c.S3.SongData},
	} {
		if loc.key == "s3.log_jsonpath" && loc.value == "auto" {
			continue
		}
		if !strings.HasPrefix(loc.value, "s3://") {
			return fmt.Errorf("invalid %s %q (must start with s3://)", loc.key, loc.value)
		}
	}
	if strings.TrimSpace(c.S3.Region) == "" {
		return fmt.Errorf("s3.region is required")
	}

	if strings.TrimSpace(c.IAMRole.ARN) == "" {
		return fmt.Errorf("iam_role.arn is required")
	}

	if _, err := schema.ParseDialect(c.Warehouse.Dialect); err != nil {
		return fmt.Errorf("invalid warehouse.dialect: %w", err)
	}
	if c.Warehouse.ConnectTimeout <= 0 {
		return fmt.Errorf("warehouse.connect_timeout must be > 0")
	}

	if c.Metrics.PushgatewayURL != "" && strings.TrimSpace(c.Metrics.Job) == "" {
		return fmt.Errorf("metrics.job is required when metrics.pushgateway_url is set")
	}

	return nil
}

// Load reads defaults, then the config file (INI, or YAML for .yaml/.yml),
// then DWH_ environment variables, and validates the result.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"s3.region":                 "us-west-2",
		"s3.preflight":              false,
		"warehouse.dialect":         string(schema.DialectRedshift),
		"warehouse.connect_timeout": "10s",
		"metrics.job":               "sparkify_dwh",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		var parser koanf.Parser = IniParser()
		switch strings.ToLower(filepath.Ext(configPath)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		}
		if err := k.Load(file.Provider(configPath), parser); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// DWH_CLUSTER__DB_PASSWORD=secret overrides cluster.db_password
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
