package config

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration for the dashboard service.
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	APIBase         string
	TenantID        string
	SignalsLimit    int
	AuditLimit      int
	RefreshInterval time.Duration
	FetchTimeout    time.Duration

	Locale   string
	TimeZone string

	LogLevel  string
	LogFormat string

	HistoryEnabled    bool
	HistoryDriver     string
	HistorySQLitePath string
	HistoryKeep       int

	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBConnTimeout  time.Duration
	DBQueryTimeout time.Duration
}

// FromEnv loads configuration from environment variables with sensible defaults.
func FromEnv() Config {
	loadConfigDefaultsFromFile()
	loadSecretsDefaultsFromFile()

	return Config{
		ListenAddr:        getEnv("APP_LISTEN_ADDR", ":8080"),
		ReadTimeout:       time.Duration(getEnvInt("APP_READ_TIMEOUT_SEC", 10)) * time.Second,
		WriteTimeout:      time.Duration(getEnvInt("APP_WRITE_TIMEOUT_SEC", 20)) * time.Second,
		ShutdownTimeout:   time.Duration(getEnvInt("APP_SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		APIBase:           strings.TrimRight(getEnv("APP_API_BASE", "http://127.0.0.1:8000/api/v1"), "/"),
		TenantID:          getEnv("APP_TENANT_ID", "default"),
		SignalsLimit:      getEnvInt("APP_SIGNALS_LIMIT", 20),
		AuditLimit:        getEnvInt("APP_AUDIT_LIMIT", 10),
		RefreshInterval:   time.Duration(getEnvInt("APP_REFRESH_INTERVAL_SEC", 10)) * time.Second,
		FetchTimeout:      time.Duration(getEnvInt("APP_FETCH_TIMEOUT_SEC", 0)) * time.Second,
		Locale:            getEnv("APP_LOCALE", "de-AT"),
		TimeZone:          getEnv("APP_TIMEZONE", "Europe/Vienna"),
		LogLevel:          getEnv("APP_LOG_LEVEL", "info"),
		LogFormat:         getEnv("APP_LOG_FORMAT", "text"),
		HistoryEnabled:    getEnvBool("APP_HISTORY_ENABLED", false),
		HistoryDriver:     getEnv("APP_HISTORY_DRIVER", "sqlite"),
		HistorySQLitePath: getEnv("APP_HISTORY_SQLITE_PATH", "./clawbot-dashboard-history.db"),
		HistoryKeep:       getEnvInt("APP_HISTORY_KEEP", 500),
		DBHost:            getEnv("APP_DB_HOST", "127.0.0.1"),
		DBPort:            getEnvInt("APP_DB_PORT", 3306),
		DBUser:            getEnv("APP_DB_USER", "clawbot"),
		DBPassword:        getEnv("APP_DB_PASSWORD", ""),
		DBName:            getEnv("APP_DB_NAME", "clawbot_dashboard"),
		DBConnTimeout:     time.Duration(getEnvInt("APP_DB_CONN_TIMEOUT_SEC", 5)) * time.Second,
		DBQueryTimeout:    time.Duration(getEnvInt("APP_DB_QUERY_TIMEOUT_SEC", 10)) * time.Second,
	}
}

// Location resolves TimeZone, falling back to UTC when the zone database
// does not know it.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.TimeZone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

func loadConfigDefaultsFromFile() {
	bootstrapCandidates := []string{
		"./clawbot-dashboard.env",
		"/etc/default/clawbot-dashboard",
	}

	for _, candidate := range bootstrapCandidates {
		abs := candidate
		if !filepath.IsAbs(candidate) {
			if wd, err := os.Getwd(); err == nil {
				abs = filepath.Join(wd, candidate)
			}
		}
		_ = applyEnvDefaultsFromFile(abs)
	}

	candidates := make([]string, 0, 2)
	if explicit := strings.TrimSpace(os.Getenv("APP_CONFIG_FILE")); explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, "/etc/clawbot-dashboard/config.env")

	for _, candidate := range candidates {
		abs := candidate
		if !filepath.IsAbs(candidate) {
			if wd, err := os.Getwd(); err == nil {
				abs = filepath.Join(wd, candidate)
			}
		}

		if err := applyEnvDefaultsFromFile(abs); err == nil {
			return
		}
	}
}

func loadSecretsDefaultsFromFile() {
	candidates := make([]string, 0, 3)
	if explicit := strings.TrimSpace(os.Getenv("APP_SECRETS_FILE")); explicit != "" {
		candidates = append(candidates, explicit)
	}
	if credDir := strings.TrimSpace(os.Getenv("CREDENTIALS_DIRECTORY")); credDir != "" {
		credName := strings.TrimSpace(os.Getenv("APP_SECRETS_CREDENTIAL_NAME"))
		if credName == "" {
			credName = "app-secrets"
		}
		candidates = append(candidates, filepath.Join(credDir, credName))
	}
	candidates = append(candidates, "/etc/clawbot-dashboard/secrets.env")
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if err := applyEnvDefaultsFromFile(candidate); err == nil {
			return
		}
	}
}

func applyEnvDefaultsFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		if key == "" {
			continue
		}

		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}

		if os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}

	return scanner.Err()
}

// MySQLDSN returns a mysql driver DSN with safe defaults for TCP access.
func (c Config) MySQLDSN() string {
	params := url.Values{}
	params.Set("parseTime", "true")
	params.Set("timeout", c.DBConnTimeout.String())
	params.Set("readTimeout", c.DBQueryTimeout.String())
	params.Set("writeTimeout", c.DBQueryTimeout.String())
	params.Set("charset", "utf8mb4")
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, params.Encode())
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}
