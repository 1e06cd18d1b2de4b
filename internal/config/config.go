package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/teamplan-app/teamplan/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	IDSeed                     uint64
	RequestQueueSize           int
	BroadcastWorkers           int
	WSSendBuffer               int
	WSMaxMessageBytes          int64
	WSWriteTimeout             time.Duration
	WSPingInterval             time.Duration
	WSReadTimeout              time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	LogLevel                   logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	idSeed, err := getEnvAsUint64("ID_SEED", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse ID_SEED: %w", err)
	}

	requestQueueSize, err := getEnvAsInt("REQUEST_QUEUE_SIZE", 256)
	if err != nil {
		return Config{}, fmt.Errorf("parse REQUEST_QUEUE_SIZE: %w", err)
	}
	if requestQueueSize < 1 {
		return Config{}, fmt.Errorf("REQUEST_QUEUE_SIZE must be >= 1")
	}

	broadcastWorkers, err := getEnvAsInt("BROADCAST_WORKERS", 16)
	if err != nil {
		return Config{}, fmt.Errorf("parse BROADCAST_WORKERS: %w", err)
	}
	if broadcastWorkers < 1 {
		return Config{}, fmt.Errorf("BROADCAST_WORKERS must be >= 1")
	}

	wsSendBuffer, err := getEnvAsInt("WS_SEND_BUFFER", 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse WS_SEND_BUFFER: %w", err)
	}
	if wsSendBuffer < 1 {
		return Config{}, fmt.Errorf("WS_SEND_BUFFER must be >= 1")
	}

	wsMaxMessageBytes, err := getEnvAsInt("WS_MAX_MESSAGE_BYTES", 65536)
	if err != nil {
		return Config{}, fmt.Errorf("parse WS_MAX_MESSAGE_BYTES: %w", err)
	}
	if wsMaxMessageBytes < 1 {
		return Config{}, fmt.Errorf("WS_MAX_MESSAGE_BYTES must be >= 1")
	}

	wsWriteTimeout, err := time.ParseDuration(getEnv("WS_WRITE_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WS_WRITE_TIMEOUT: %w", err)
	}
	if wsWriteTimeout <= 0 {
		return Config{}, fmt.Errorf("WS_WRITE_TIMEOUT must be > 0")
	}

	wsPingInterval, err := time.ParseDuration(getEnv("WS_PING_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WS_PING_INTERVAL: %w", err)
	}
	if wsPingInterval <= 0 {
		return Config{}, fmt.Errorf("WS_PING_INTERVAL must be > 0")
	}

	wsReadTimeout, err := time.ParseDuration(getEnv("WS_READ_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WS_READ_TIMEOUT: %w", err)
	}
	if wsReadTimeout <= wsPingInterval {
		return Config{}, fmt.Errorf("WS_READ_TIMEOUT must be > WS_PING_INTERVAL")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "teamplan-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		IDSeed:                     idSeed,
		RequestQueueSize:           requestQueueSize,
		BroadcastWorkers:           broadcastWorkers,
		WSSendBuffer:               wsSendBuffer,
		WSMaxMessageBytes:          int64(wsMaxMessageBytes),
		WSWriteTimeout:             wsWriteTimeout,
		WSPingInterval:             wsPingInterval,
		WSReadTimeout:              wsReadTimeout,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsUint64(key string, fallback uint64) (uint64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
