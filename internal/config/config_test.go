package config

import (
	"testing"
	"time"

	"github.com/teamplan-app/teamplan/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.ServiceName != "teamplan-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.RequestQueueSize != 256 {
		t.Fatalf("unexpected RequestQueueSize: %d", cfg.RequestQueueSize)
	}
	if cfg.BroadcastWorkers != 16 {
		t.Fatalf("unexpected BroadcastWorkers: %d", cfg.BroadcastWorkers)
	}
	if cfg.WSSendBuffer != 64 {
		t.Fatalf("unexpected WSSendBuffer: %d", cfg.WSSendBuffer)
	}
	if cfg.WSPingInterval != 30*time.Second || cfg.WSReadTimeout != 60*time.Second {
		t.Fatalf("unexpected websocket timings: ping=%s read=%s", cfg.WSPingInterval, cfg.WSReadTimeout)
	}
	if cfg.IDSeed != 0 {
		t.Fatalf("unexpected IDSeed: %d", cfg.IDSeed)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_IDSeedParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ID_SEED", "18446744073709551615")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IDSeed != 18446744073709551615 {
		t.Fatalf("unexpected IDSeed: %d", cfg.IDSeed)
	}

	t.Setenv("ID_SEED", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric ID_SEED")
	}
}

func TestLoad_ReadTimeoutMustExceedPingInterval(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WS_PING_INTERVAL", "45s")
	t.Setenv("WS_READ_TIMEOUT", "30s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when WS_READ_TIMEOUT <= WS_PING_INTERVAL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_QueueBoundsRejectZero(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("REQUEST_QUEUE_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for REQUEST_QUEUE_SIZE=0")
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("origins not trimmed: %v", cfg.CORSAllowedOrigins)
	}
}
