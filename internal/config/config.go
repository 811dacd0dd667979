package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// server config
	APP_PORT string
	// upstream config
	EMPLOYEE_API_BASE_URL string
	HTTP_CONNECT_TIMEOUT  time.Duration
	HTTP_READ_TIMEOUT     time.Duration
	RETRY_MAX_ATTEMPTS    int
	RETRY_BASE_DELAY      time.Duration
	RETRY_MAX_DELAY       time.Duration
	// cache config
	CACHE_BACKEND string // memory, redis or off
	REDIS_ADDR    string
	// logger config
	LOG_FILE_PATH string
}

// fileConfig mirrors the optional YAML config file. File values seed the
// defaults; environment variables still win.
type fileConfig struct {
	AppPort          string `yaml:"app_port"`
	EmployeeAPIURL   string `yaml:"employee_api_base_url"`
	ConnectTimeout   string `yaml:"http_connect_timeout"`
	ReadTimeout      string `yaml:"http_read_timeout"`
	RetryMaxAttempts int    `yaml:"retry_max_attempts"`
	RetryBaseDelay   string `yaml:"retry_base_delay"`
	RetryMaxDelay    string `yaml:"retry_max_delay"`
	CacheBackend     string `yaml:"cache_backend"`
	RedisAddr        string `yaml:"redis_addr"`
	LogFilePath      string `yaml:"log_file_path"`
}

// LoadEnvConfig populates DefaultEnvConfig from, in increasing precedence:
// built-in defaults, an optional YAML config file (CONFIG_FILE, default
// config.yaml), a .env file, and the process environment.
func LoadEnvConfig() error {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	fc, err := loadFileConfig(getEnvString("CONFIG_FILE", "config.yaml"))
	if err != nil {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:              getEnvString("APP_PORT", orString(fc.AppPort, "8080")),
		EMPLOYEE_API_BASE_URL: getEnvString("EMPLOYEE_API_BASE_URL", orString(fc.EmployeeAPIURL, "http://localhost:8112/api/v1/employee")),
		HTTP_CONNECT_TIMEOUT:  getEnvDuration("HTTP_CONNECT_TIMEOUT", orDuration(fc.ConnectTimeout, 10*time.Second)),
		HTTP_READ_TIMEOUT:     getEnvDuration("HTTP_READ_TIMEOUT", orDuration(fc.ReadTimeout, 30*time.Second)),
		RETRY_MAX_ATTEMPTS:    getEnvInt("RETRY_MAX_ATTEMPTS", orInt(fc.RetryMaxAttempts, 3)),
		RETRY_BASE_DELAY:      getEnvDuration("RETRY_BASE_DELAY", orDuration(fc.RetryBaseDelay, time.Second)),
		RETRY_MAX_DELAY:       getEnvDuration("RETRY_MAX_DELAY", orDuration(fc.RetryMaxDelay, 30*time.Second)),
		CACHE_BACKEND:         getEnvString("CACHE_BACKEND", orString(fc.CacheBackend, "memory")),
		REDIS_ADDR:            getEnvString("REDIS_ADDR", orString(fc.RedisAddr, "localhost:6379")),
		LOG_FILE_PATH:         getEnvString("LOG_FILE_PATH", fc.LogFilePath),
	}
	return nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

func orString(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}

func orInt(val, fallback int) int {
	if val != 0 {
		return val
	}
	return fallback
}

func orDuration(val string, fallback time.Duration) time.Duration {
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if i, err := strconv.Atoi(val); err == nil {
		return time.Duration(i) * time.Second
	}
	return fallback
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
