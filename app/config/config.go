// Package config loads the application configuration from defaults, an optional
// YAML file, a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MailSMTP    = "smtp"
	MailConsole = "console"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Site    SiteConfig    `yaml:"site"`
	Storage StorageConfig `yaml:"storage"`
	Mail    MailConfig    `yaml:"mail"`
	Blog    BlogConfig    `yaml:"blog"`
	Views   ViewsConfig   `yaml:"views"`
	Log     LogConfig     `yaml:"log"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type SiteConfig struct {
	// BaseURL is used to build absolute links in emails. When empty the
	// scheme and host of the incoming request are used.
	BaseURL string `yaml:"base_url"`
	Name    string `yaml:"name"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"`
	BadgerPath  string `yaml:"badger_path"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	BackupDir   string `yaml:"backup_dir"`
}

type MailConfig struct {
	Backend  string `yaml:"backend"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type BlogConfig struct {
	PageSize        int     `yaml:"page_size"`
	SimilarLimit    int     `yaml:"similar_limit"`
	SearchThreshold float64 `yaml:"search_threshold"`
	// SearchOrder is the order of search results by similarity. "asc" lists the
	// least similar match first.
	SearchOrder string `yaml:"search_order"`
}

type ViewsConfig struct {
	TemplatesDir string `yaml:"templates_dir"`
	StaticDir    string `yaml:"static_dir"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: ":8080"},
		Site: SiteConfig{Name: "inkwell"},
		Storage: StorageConfig{
			Driver:     DriverBadger,
			BadgerPath: "data/badger",
			SQLitePath: "data/inkwell.db",
			BackupDir:  "data/backups",
		},
		Mail: MailConfig{
			Backend: MailConsole,
			Port:    25,
			From:    "noreply@localhost",
		},
		Blog: BlogConfig{
			PageSize:        2,
			SimilarLimit:    4,
			SearchThreshold: 0.1,
			SearchOrder:     OrderAsc,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path may be empty, in which case no YAML file is
// read. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.HTTP.Addr, "INKWELL_HTTP_ADDR")
	setString(&c.Site.BaseURL, "INKWELL_SITE_URL")
	setString(&c.Storage.Driver, "INKWELL_STORAGE_DRIVER")
	setString(&c.Storage.BadgerPath, "INKWELL_BADGER_PATH")
	setString(&c.Storage.DatabaseURL, "DATABASE_URL")
	setString(&c.Storage.SQLitePath, "INKWELL_SQLITE_PATH")
	setString(&c.Storage.BackupDir, "INKWELL_BACKUP_DIR")
	setString(&c.Mail.Backend, "INKWELL_MAIL_BACKEND")
	setString(&c.Mail.Host, "SMTP_HOST")
	setString(&c.Mail.Username, "SMTP_USERNAME")
	setString(&c.Mail.Password, "SMTP_PASSWORD")
	setString(&c.Mail.From, "INKWELL_MAIL_FROM")
	setString(&c.Blog.SearchOrder, "INKWELL_SEARCH_ORDER")
	setString(&c.Views.TemplatesDir, "INKWELL_TEMPLATES_DIR")
	setString(&c.Views.StaticDir, "INKWELL_STATIC_DIR")
	setString(&c.Log.Level, "INKWELL_LOG_LEVEL")

	if v, ok := os.LookupEnv("SMTP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
		c.Mail.Port = port
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate rejects configurations the application cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverBadger:
		if c.Storage.BadgerPath == "" {
			return errors.New("storage.badger_path is required for the badger driver")
		}
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("storage.database_url (DATABASE_URL) is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Mail.Backend {
	case MailConsole:
	case MailSMTP:
		if c.Mail.Host == "" {
			return errors.New("mail.host is required for the smtp backend")
		}
	default:
		return fmt.Errorf("unknown mail backend %q", c.Mail.Backend)
	}
	if c.Mail.From == "" {
		return errors.New("mail.from is required")
	}

	c.Blog.SearchOrder = strings.ToLower(c.Blog.SearchOrder)
	if c.Blog.SearchOrder != OrderAsc && c.Blog.SearchOrder != OrderDesc {
		return fmt.Errorf("blog.search_order must be %q or %q", OrderAsc, OrderDesc)
	}
	if c.Blog.PageSize < 1 {
		return errors.New("blog.page_size must be positive")
	}
	if c.Blog.SimilarLimit < 0 {
		return errors.New("blog.similar_limit cannot be negative")
	}
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	return nil
}
