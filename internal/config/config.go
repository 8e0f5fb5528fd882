package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/mwakio197/Dbot-sub001/pkg/data/db/mysql"
	"github.com/mwakio197/Dbot-sub001/pkg/data/db/psql"
)

const (
	LedgerNone     = "none"
	LedgerMySQL    = "mysql"
	LedgerPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Bubble   BubbleConfig   `yaml:"bubble"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Deriv    DerivConfig    `yaml:"deriv"`
	Pushover PushoverConfig `yaml:"pushover"`
	Bus      BusConfig      `yaml:"bus"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr                string `yaml:"addr"`
	ReadTimeout         string `yaml:"read_timeout"`
	WriteTimeout        string `yaml:"write_timeout"`
	ApplicationType     string `yaml:"application_type"`
	ApplicationWorkflow string `yaml:"application_workflow"`
}

type BubbleConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIToken string `yaml:"api_token"`
	Timeout  string `yaml:"timeout"`
}

type MySQLConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime string `yaml:"conn_max_idle_time"`
	DialTimeout     string `yaml:"dial_timeout"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
}

type PostgresConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// LedgerConfig selects where closed contracts and submitted applications are recorded.
type LedgerConfig struct {
	Backend string `yaml:"backend"`
}

type DerivConfig struct {
	Endpoint string `yaml:"endpoint"`
	AppID    string `yaml:"app_id"`
	Token    string `yaml:"token"`
}

type PushoverConfig struct {
	Enabled bool   `yaml:"enabled"`
	User    string `yaml:"user"`
	Token   string `yaml:"token"`
	Device  string `yaml:"device"`
}

type BusConfig struct {
	Capacity int `yaml:"capacity"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			WriteTimeout:    "15s",
			ApplicationType: "application",
		},
		Bubble: BubbleConfig{
			Timeout: "10s",
		},
		MySQL: MySQLConfig{
			Host:            "127.0.0.1",
			Port:            3306,
			User:            "dbot",
			Database:        "dbot",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: "30m",
			ConnMaxIdleTime: "5m",
			DialTimeout:     "5s",
			ReadTimeout:     "10s",
			WriteTimeout:    "10s",
		},
		Postgres: PostgresConfig{
			Host:     "127.0.0.1",
			Port:     "5432",
			User:     "dbot",
			Database: "dbot",
			SSLMode:  "disable",
		},
		Ledger: LedgerConfig{
			Backend: LedgerNone,
		},
		Deriv: DerivConfig{
			Endpoint: "wss://ws.derivws.com/websockets/v3",
			AppID:    "1089",
		},
		Bus: BusConfig{
			Capacity: 1024,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	for env, dst := range map[string]*string{
		"DBOT_BUBBLE_API_TOKEN":  &c.Bubble.APIToken,
		"DBOT_BUBBLE_BASE_URL":   &c.Bubble.BaseURL,
		"DBOT_MYSQL_PASSWORD":    &c.MySQL.Password,
		"DBOT_POSTGRES_PASSWORD": &c.Postgres.Password,
		"DBOT_DERIV_TOKEN":       &c.Deriv.Token,
		"DBOT_DERIV_APP_ID":      &c.Deriv.AppID,
		"DBOT_PUSHOVER_TOKEN":    &c.Pushover.Token,
		"DBOT_PUSHOVER_USER":     &c.Pushover.User,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}

func (c *Config) Validate() error {
	var errs []error

	for name, value := range map[string]string{
		"server.read_timeout":      c.Server.ReadTimeout,
		"server.write_timeout":     c.Server.WriteTimeout,
		"bubble.timeout":           c.Bubble.Timeout,
		"mysql.conn_max_lifetime":  c.MySQL.ConnMaxLifetime,
		"mysql.conn_max_idle_time": c.MySQL.ConnMaxIdleTime,
		"mysql.dial_timeout":       c.MySQL.DialTimeout,
		"mysql.read_timeout":       c.MySQL.ReadTimeout,
		"mysql.write_timeout":      c.MySQL.WriteTimeout,
	} {
		if _, err := duration(value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", name, value, err))
		}
	}

	switch c.Ledger.Backend {
	case "", LedgerNone:
	case LedgerMySQL:
		if !c.MySQL.Enabled {
			errs = append(errs, errors.New("ledger backend mysql requires mysql.enabled"))
		}
	case LedgerPostgres:
		if !c.Postgres.Enabled {
			errs = append(errs, errors.New("ledger backend postgres requires postgres.enabled"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid ledger.backend %q", c.Ledger.Backend))
	}

	if c.Bus.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("invalid bus.capacity %d", c.Bus.Capacity))
	}
	if c.Pushover.Enabled && (c.Pushover.User == "" || c.Pushover.Token == "") {
		errs = append(errs, errors.New("pushover requires user and token"))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid logging.level: %w", err))
	}

	return errors.Join(errs...)
}

func (c *Config) ReadTimeout() time.Duration  { return mustDuration(c.Server.ReadTimeout) }
func (c *Config) WriteTimeout() time.Duration { return mustDuration(c.Server.WriteTimeout) }
func (c *Config) BubbleTimeout() time.Duration {
	return mustDuration(c.Bubble.Timeout)
}

func (c *Config) MySQLOptions() mysql.Options {
	m := c.MySQL
	return mysql.Options{
		Host:            m.Host,
		Port:            m.Port,
		User:            m.User,
		Password:        m.Password,
		Database:        m.Database,
		MaxOpenConns:    m.MaxOpenConns,
		MaxIdleConns:    m.MaxIdleConns,
		ConnMaxLifetime: mustDuration(m.ConnMaxLifetime),
		ConnMaxIdleTime: mustDuration(m.ConnMaxIdleTime),
		DialTimeout:     mustDuration(m.DialTimeout),
		ReadTimeout:     mustDuration(m.ReadTimeout),
		WriteTimeout:    mustDuration(m.WriteTimeout),
	}
}

func (c *Config) PostgresOptions() psql.Options {
	p := c.Postgres
	return psql.Options{
		Host:     p.Host,
		Port:     p.Port,
		User:     p.User,
		Password: p.Password,
		Database: p.Database,
		SSLMode:  p.SSLMode,
	}
}

func duration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// mustDuration returns 0 for values Validate would reject.
func mustDuration(s string) time.Duration {
	d, err := duration(s)
	if err != nil {
		return 0
	}
	return d
}
