package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/rpattn/jobql/internal/db"
	"github.com/rpattn/jobql/internal/domain"
	"github.com/rpattn/jobql/internal/filter"
)

// EnvPrefix prefixes every environment override, e.g. JOBQL_DATABASE_HOST.
const EnvPrefix = "JOBQL"

// Config is the full application configuration
type Config struct {
	Server   ServerConfig `mapstructure:"server"`
	Database db.Config    `mapstructure:"database"`
	Log      LogConfig    `mapstructure:"log"`
	Filter   FilterConfig `mapstructure:"filter"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	DefaultLimit   int           `mapstructure:"default_limit"`
	MaxLimit       int           `mapstructure:"max_limit"`
	AutoMigrate    bool          `mapstructure:"auto_migrate"`
}

// LogConfig selects the logger level and encoding
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FilterConfig controls filter compilation
type FilterConfig struct {
	Mode      string            `mapstructure:"mode"`
	Relations []domain.Relation `mapstructure:"relations"`
}

// CompileMode parses the configured attribute mode.
func (f FilterConfig) CompileMode() (filter.Mode, error) {
	return filter.ParseMode(f.Mode)
}

// Registry returns the default relations extended with any configured ones.
func (f FilterConfig) Registry() domain.RelationRegistry {
	return domain.DefaultRelationRegistry().With(f.Relations...)
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			IdleTimeout:    60 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
			DefaultLimit:   50,
			MaxLimit:       500,
		},
		Database: db.DefaultConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Filter: FilterConfig{
			Mode: filter.ModeLenient.String(),
		},
	}
}

// Load reads config.yaml from configPath when present, then applies JOBQL_*
// environment overrides on top of Default.
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if _, err := c.Filter.CompileMode(); err != nil {
		return errors.Wrap(err, "filter.mode")
	}
	if c.Server.DefaultLimit <= 0 {
		return errors.Newf("server.default_limit must be positive, got %d", c.Server.DefaultLimit)
	}
	if c.Server.MaxLimit < c.Server.DefaultLimit {
		return errors.Newf("server.max_limit (%d) must be at least server.default_limit (%d)",
			c.Server.MaxLimit, c.Server.DefaultLimit)
	}
	for _, rel := range c.Filter.Relations {
		if strings.TrimSpace(rel.Name) == "" {
			return errors.New("filter.relations: every relation needs a name")
		}
		if rel.PivotTable == "" && rel.OwnerKey == "" {
			return errors.Newf("filter.relations: %q needs either pivot_table or owner_key", rel.Name)
		}
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.default_limit", d.Server.DefaultLimit)
	v.SetDefault("server.max_limit", d.Server.MaxLimit)
	v.SetDefault("server.auto_migrate", d.Server.AutoMigrate)

	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.dbname", d.Database.DBName)
	v.SetDefault("database.sslmode", d.Database.SSLMode)
	v.SetDefault("database.max_conns", d.Database.MaxConns)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("filter.mode", d.Filter.Mode)
}
