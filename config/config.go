package config

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
)

// Config holds the database connection parameters and output settings.
// Values come from the environment; Load reads them after godotenv has
// populated the process environment from .env.
type Config struct {
	Driver    string // "sqlserver" or "postgres"
	Host      string
	Port      int
	Database  string
	User      string
	Password  string
	ExportDir string
}

const (
	defaultSQLServerPort = 1433
	defaultPostgresPort  = 5432
	defaultExportDir     = "exports"
)

// Load reads connection parameters from the environment.
func Load() (Config, error) {
	cfg := Config{
		Driver:    getEnv("DB_DRIVER", "sqlserver"),
		Host:      os.Getenv("SQLSERVER_HOST"),
		Database:  os.Getenv("SQLSERVER_DB"),
		User:      os.Getenv("SQLSERVER_USER"),
		Password:  os.Getenv("SQLSERVER_PASS"),
		ExportDir: getEnv("EXPORT_DIR", defaultExportDir),
	}

	if cfg.Driver != "sqlserver" && cfg.Driver != "postgres" {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	if cfg.Host == "" {
		return Config{}, fmt.Errorf("SQLSERVER_HOST is not set")
	}
	if cfg.Database == "" {
		return Config{}, fmt.Errorf("SQLSERVER_DB is not set")
	}
	if cfg.User == "" {
		return Config{}, fmt.Errorf("SQLSERVER_USER is not set")
	}

	port := defaultSQLServerPort
	if cfg.Driver == "postgres" {
		port = defaultPostgresPort
	}
	if p := os.Getenv("SQLSERVER_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("invalid SQLSERVER_PORT %q", p)
		}
		port = parsed
	}
	cfg.Port = port

	return cfg, nil
}

// DSN builds the driver-specific connection string.
func (c Config) DSN() string {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Password, c.Database)
	default:
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(c.User, c.Password),
			Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
			RawQuery: url.Values{"database": []string{c.Database}}.Encode(),
		}
		return u.String()
	}
}

// Connect opens a single synchronous connection handle and verifies it
// with a ping. Callers own the returned handle and must Close it.
func Connect(cfg Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", cfg.Driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s at %s:%d: %w", cfg.Driver, cfg.Host, cfg.Port, err)
	}

	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
