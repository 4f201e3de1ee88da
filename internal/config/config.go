package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the host server configuration, read from the environment.
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	GinMode        string   `env:"GIN_MODE" envDefault:"debug"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogProduction  bool     `env:"LOG_PRODUCTION"`
	JWTSecret      string   `env:"JWT_SECRET"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`

	Database Database
	Menu     Menu
	Admin    Admin
}

// Database selects the driver and connection.
type Database struct {
	Driver   string `env:"DB_DRIVER" envDefault:"postgres"`
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"postgres"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	Path     string `env:"DB_PATH" envDefault:"cmenu.db"`

	MaxOpenConns int `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
}

// Menu configures schema overrides and the seed group.
type Menu struct {
	// Tables maps entity names to host table names: "Group:cMenu_menugroups,Item:cMenu_menuitems".
	Tables    map[string]string `env:"CMENU_TABLES" envKeyValSeparator:":"`
	SeedTier  string            `env:"CMENU_SEED_TIER" envDefault:"super"`
	SeedGroup string            `env:"CMENU_SEED_GROUP" envDefault:"Initial Group"`
	SeedInfo  string            `env:"CMENU_SEED_INFO" envDefault:"Group Info here"`
}

// Admin is the superuser created on first start. It is skipped while
// Username or Password is empty.
type Admin struct {
	Username string `env:"CMENU_ADMIN_USER"`
	Email    string `env:"CMENU_ADMIN_EMAIL" envDefault:"admin@localhost"`
	Password string `env:"CMENU_ADMIN_PASSWORD"`
}

// Enabled reports whether first-start credentials are configured.
func (a Admin) Enabled() bool {
	return a.Username != "" && a.Password != ""
}

// Load reads envFile, if present, into the process environment and parses
// the configuration. A missing envFile is not an error; loaded reports
// whether it was found.
func Load(envFile string) (cfg Config, loaded bool, err error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, false, fmt.Errorf("load %s: %w", envFile, err)
			}
		} else {
			loaded = true
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, loaded, fmt.Errorf("parse env: %w", err)
	}
	return cfg, loaded, nil
}

// DSN returns the connection string for the configured driver.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case "sqlite":
		return d.Path
	default:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     d.Host + ":" + d.Port,
			Path:     "/" + d.Name,
			RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
		}
		return u.String()
	}
}
