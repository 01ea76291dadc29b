package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config is the process-wide configuration, read once at startup. Secret
// values (API key, encryption key, pad) come from docker-secrets style
// files; everything else from the environment.
type Config struct {
	HTTPAddr string
	Env      string // "dev" | "prod"
	LogLevel string

	SecretsDir string

	ManagementDriver string
	ManagementDSN    string
	VisitsDriver     string
	VisitsDSN        string

	StoreTimeout time.Duration

	// Secrets, populated by Load.
	APIKey        string
	PseudoPad     string
	EncryptKeyPEM []byte
}

// FromEnv reads the non-secret configuration with fail-soft defaults.
// The dev profile defaults both stores to local SQLite files.
func FromEnv() Config {
	env := strings.ToLower(getenvDefault("CHECKIN_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	defaultDriver := "mysql"
	defaultMgmtDSN := ""
	defaultVisitsDSN := ""
	defaultLevel := "info"
	if env == "dev" {
		defaultDriver = "sqlite"
		defaultMgmtDSN = "./data/management.db"
		defaultVisitsDSN = "./data/visits.db"
		defaultLevel = "debug"
	}

	return Config{
		HTTPAddr:   getenvDefault("CHECKIN_HTTP_ADDR", ":8000"),
		Env:        env,
		LogLevel:   getenvDefault("CHECKIN_LOG_LEVEL", defaultLevel),
		SecretsDir: getenvDefault("CHECKIN_SECRETS_DIR", "/run/secrets"),

		ManagementDriver: getenvDefault("CHECKIN_MGMT_DRIVER", defaultDriver),
		ManagementDSN:    getenvDefault("CHECKIN_MGMT_DSN", defaultMgmtDSN),
		VisitsDriver:     getenvDefault("CHECKIN_VISITS_DRIVER", defaultDriver),
		VisitsDSN:        getenvDefault("CHECKIN_VISITS_DSN", defaultVisitsDSN),

		StoreTimeout: time.Duration(getenvInt("CHECKIN_STORE_TIMEOUT_MS", 5000)) * time.Millisecond,
	}
}

// Load builds the full configuration: environment plus secret files.
// A missing or empty secret is fatal to startup — the server must never
// run without its shared key, encryption key and pad.
func Load() (Config, error) {
	cfg := FromEnv()

	var err error
	if cfg.APIKey, err = ReadSecret(cfg.SecretsDir, "api_key"); err != nil {
		return Config{}, err
	}
	if cfg.PseudoPad, err = ReadSecret(cfg.SecretsDir, "pseudo_pad"); err != nil {
		return Config{}, err
	}

	keyPEM, err := ReadSecret(cfg.SecretsDir, "encrypt_key")
	if err != nil {
		return Config{}, err
	}
	cfg.EncryptKeyPEM = []byte(keyPEM)

	if cfg.ManagementDSN == "" {
		return Config{}, fmt.Errorf("config: CHECKIN_MGMT_DSN is required")
	}
	if cfg.VisitsDSN == "" {
		return Config{}, fmt.Errorf("config: CHECKIN_VISITS_DSN is required")
	}

	return cfg, nil
}

// ReadSecret reads one secret file from the secrets directory, trimming
// surrounding whitespace. Secret values are never logged.
func ReadSecret(dir, name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("config: read secret %s: %w", name, err)
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return "", fmt.Errorf("config: secret %s is empty", name)
	}
	return v, nil
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
