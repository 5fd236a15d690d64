package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "search-provisioner"
	defaultDBHost       = "127.0.0.1"
	defaultDBPort       = 5432
	defaultDBUser       = "postgres"
	defaultDBPassword   = "postgres"
	defaultDBName       = "postgres"
	defaultDBSSLMode    = "disable"
	defaultSearchHost   = "127.0.0.1"
	defaultSearchPort   = 9200
	defaultDataDir      = "./etl_data"
	defaultMaxAttempts  = 5
	defaultRetryDelay   = 3 * time.Second
	defaultPollInterval = 100 * time.Millisecond
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
)

// defaultIndexes is the fixed provisioning order: genres and persons are
// referenced by documents in movies, so movies is created first.
var defaultIndexes = []string{"movies", "genres", "persons"}

// Config holds the provisioner configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Provision ProvisionConfig `yaml:"provision"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service identity configuration.
type ServiceConfig struct {
	Name  string `yaml:"name"`
	Debug bool   `env:"APP_DEBUG" yaml:"debug"`
}

// DatabaseConfig identifies the Postgres dependency. Env variable names match
// the rest of the movies platform.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_HOST"     yaml:"host"`
	Port     int    `env:"PGPORT"            yaml:"port"`
	User     string `env:"POSTGRES_USER"     yaml:"user"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	// SkipVerify disables the SQL liveness probe that normally follows the
	// TCP reachability wait.
	SkipVerify bool `yaml:"skip_verify"`
}

// SearchConfig identifies the Elasticsearch dependency.
type SearchConfig struct {
	Host string `env:"ELASTIC_HOST" yaml:"host"`
	Port int    `env:"ELASTIC_PORT" yaml:"port"`
}

// URL returns the base URL of the search engine's HTTP API.
func (s SearchConfig) URL() string {
	return fmt.Sprintf("http://%s:%d", s.Host, s.Port)
}

// ProvisionConfig controls index provisioning.
type ProvisionConfig struct {
	// DataDir is the directory holding <index>_index.json definition files.
	DataDir string `env:"ETL_DATA_DIR" yaml:"data_dir"`
	// Indexes is the ordered list of indexes to provision.
	Indexes []string `yaml:"indexes"`
	// MaxAttempts bounds creation attempts per index.
	MaxAttempts int `yaml:"max_attempts"`
	// RetryDelay is the fixed delay between creation attempts.
	RetryDelay time.Duration `yaml:"retry_delay"`
	// PollInterval is the sleep between dependency reachability probes.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from a YAML file with env overrides and defaults.
func Load(path string) (*Config, error) {
	return loadWithDefaults[Config](path, setDefaults)
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setSearchDefaults(&cfg.Search)
	setProvisionDefaults(&cfg.Provision)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Password == "" {
		d.Password = defaultDBPassword
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
}

func setSearchDefaults(s *SearchConfig) {
	if s.Host == "" {
		s.Host = defaultSearchHost
	}
	if s.Port == 0 {
		s.Port = defaultSearchPort
	}
}

func setProvisionDefaults(p *ProvisionConfig) {
	if p.DataDir == "" {
		p.DataDir = defaultDataDir
	}
	if len(p.Indexes) == 0 {
		p.Indexes = defaultIndexes
	}
	if p.MaxAttempts == 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.RetryDelay == 0 {
		p.RetryDelay = defaultRetryDelay
	}
	if p.PollInterval == 0 {
		p.PollInterval = defaultPollInterval
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validateRequired("database.host", c.Database.Host); err != nil {
		return err
	}
	if err := validatePort("database.port", c.Database.Port); err != nil {
		return err
	}
	if err := validateRequired("search.host", c.Search.Host); err != nil {
		return err
	}
	if err := validatePort("search.port", c.Search.Port); err != nil {
		return err
	}
	if len(c.Provision.Indexes) == 0 {
		return &ValidationError{Field: "provision.indexes", Message: "is required"}
	}
	if c.Provision.MaxAttempts < 1 {
		return &ValidationError{Field: "provision.max_attempts", Message: "must be at least 1"}
	}
	return nil
}
