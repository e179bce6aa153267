package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	Database       DatabaseConfig
	JWT            JWTConfig
	Log            LogConfig
	Alerts         AlertConfig
	LoginRate      RateConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type LogConfig struct {
	Level    string
	Encoding string
}

type AlertConfig struct {
	SweepInterval  time.Duration
	DiscordWebhook string
	SlackWebhook   string
}

type RateConfig struct {
	PerSecond float64
	Burst     int
}

// Development origins always allowed by CORS and the alert websocket.
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_user", "root")
	v.SetDefault("db_password", "password")
	v.SetDefault("db_name", "agromanage")
	v.SetDefault("db_max_open_conns", 10)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", "30m")

	v.SetDefault("jwt_secret", "your-secret-key")
	v.SetDefault("jwt_ttl", "24h")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "json")

	v.SetDefault("alert_sweep_interval", "1m")
	v.SetDefault("alert_discord_webhook", "")
	v.SetDefault("alert_slack_webhook", "")

	v.SetDefault("login_rate_per_second", 5)
	v.SetDefault("login_rate_burst", 10)

	v.SetDefault("client_url", "")
	v.SetDefault("allowed_origins", "")
}

// LoadDotEnv loads a .env file into the process environment. A missing file
// is not an error since every option has a development fallback.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port: v.GetString("port"),
		Database: DatabaseConfig{
			Host:            v.GetString("db_host"),
			Port:            v.GetInt("db_port"),
			User:            v.GetString("db_user"),
			Password:        v.GetString("db_password"),
			Name:            v.GetString("db_name"),
			MaxOpenConns:    v.GetInt("db_max_open_conns"),
			MaxIdleConns:    v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db_conn_max_lifetime"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt_secret"),
			TTL:    v.GetDuration("jwt_ttl"),
		},
		Log: LogConfig{
			Level:    v.GetString("log_level"),
			Encoding: v.GetString("log_encoding"),
		},
		Alerts: AlertConfig{
			SweepInterval:  v.GetDuration("alert_sweep_interval"),
			DiscordWebhook: v.GetString("alert_discord_webhook"),
			SlackWebhook:   v.GetString("alert_slack_webhook"),
		},
		LoginRate: RateConfig{
			PerSecond: v.GetFloat64("login_rate_per_second"),
			Burst:     v.GetInt("login_rate_burst"),
		},
		AllowedOrigins: allowedOrigins(v.GetString("client_url"), v.GetString("allowed_origins")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Alerts.SweepInterval <= 0 {
		return fmt.Errorf("ALERT_SWEEP_INTERVAL must be positive")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %w", err)
	}
	return nil
}

func allowedOrigins(clientURL, extra string) []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL != "" {
		origins = append(origins, clientURL)
	}

	for _, origin := range strings.Split(extra, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}

// DSN renders the go-sql-driver connection string.
func (c DatabaseConfig) DSN() string {
	dsn := mysqldriver.NewConfig()
	dsn.User = c.User
	dsn.Passwd = c.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	dsn.DBName = c.Name
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	return dsn.FormatDSN()
}
