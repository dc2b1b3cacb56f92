package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"

	"bankinfer/adapters/datareadiness/coercer"
	"bankinfer/domain/stats"
	"bankinfer/internal/errors"
)

// SourceKind names where the dataset is loaded from
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceURL  SourceKind = "url"
	SourceSQL  SourceKind = "sql"
)

// Config represents the complete application configuration
type Config struct {
	Source   SourceConfig
	Server   ServerConfig
	Policy   stats.Policy
	Coercion coercer.CoercionConfig
	LogLevel string
}

// SourceConfig holds the dataset source settings. Exactly one of Path, URL
// or the SQL triple is set.
type SourceConfig struct {
	Path         string
	URL          string
	SQLDriver    string
	SQLDSN       string
	SQLTable     string
	Sheet        string
	Delimiter    rune
	FetchTimeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	UIPort  string
	GinMode string
}

// Kind reports which source is configured
func (s SourceConfig) Kind() SourceKind {
	switch {
	case s.Path != "":
		return SourceFile
	case s.URL != "":
		return SourceURL
	default:
		return SourceSQL
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	source, err := loadSourceConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dataset source configuration")
	}

	policy, err := loadPolicy()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load inference policy")
	}

	config := &Config{
		Source:   *source,
		Server:   loadServerConfig(),
		Policy:   policy,
		Coercion: loadCoercionConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadSourceConfig() (*SourceConfig, error) {
	delimiter := ','
	if raw := os.Getenv("CSV_DELIMITER"); raw != "" {
		if raw == `\t` {
			raw = "\t"
		}
		r, size := utf8.DecodeRuneInString(raw)
		if size != len(raw) || r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
			return nil, errors.ConfigInvalid(fmt.Sprintf("CSV_DELIMITER %q must be a single character", raw))
		}
		delimiter = r
	}

	timeout, err := getEnvDuration("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	return &SourceConfig{
		Path:         strings.TrimSpace(os.Getenv("DATASET_PATH")),
		URL:          strings.TrimSpace(os.Getenv("DATASET_URL")),
		SQLDriver:    strings.TrimSpace(os.Getenv("DATASET_SQL_DRIVER")),
		SQLDSN:       strings.TrimSpace(os.Getenv("DATASET_SQL_DSN")),
		SQLTable:     strings.TrimSpace(os.Getenv("DATASET_SQL_TABLE")),
		Sheet:        os.Getenv("XLSX_SHEET"),
		Delimiter:    delimiter,
		FetchTimeout: timeout,
	}, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		UIPort:  getEnvOrDefault("UI_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadCoercionConfig() coercer.CoercionConfig {
	cfg := coercer.DefaultCoercionConfig()
	if tokens := getEnvList("MISSING_TOKENS"); tokens != nil {
		cfg.MissingTokens = tokens
	}
	return cfg
}

// loadPolicy starts from the defaults, applies POLICY_FILE and then the
// individual environment overrides
func loadPolicy() (stats.Policy, error) {
	policy := stats.DefaultPolicy()

	if path := os.Getenv("POLICY_FILE"); path != "" {
		var err error
		if policy, err = LoadPolicyFile(path, policy); err != nil {
			return policy, err
		}
	}

	if v, ok := os.LookupEnv("OUTCOME_COLUMN"); ok {
		policy.OutcomeColumn = strings.TrimSpace(v)
	}
	if list := getEnvList("OUTCOME_CANDIDATES"); list != nil {
		policy.OutcomeCandidates = list
	}
	if list := getEnvList("POSITIVE_TOKENS"); list != nil {
		policy.PositiveTokens = list
	}
	n, err := getEnvInt("MAX_CATEGORIES", policy.MaxCategories)
	if err != nil {
		return policy, err
	}
	policy.MaxCategories = n
	yates, err := getEnvBool("YATES_CORRECTION", policy.YatesCorrection)
	if err != nil {
		return policy, err
	}
	policy.YatesCorrection = yates

	return policy, nil
}

// LoadPolicyFile decodes a TOML policy on top of base. Keys absent from the
// file keep the value from base.
func LoadPolicyFile(path string, base stats.Policy) (stats.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrapf(errors.ConfigInvalid("policy file unreadable"), "read %s: %v", path, err)
	}

	policy := base
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&policy); err != nil {
		return base, errors.Wrapf(errors.ConfigInvalid("policy file invalid"), "parse %s: %v", path, err)
	}
	return policy, nil
}

func validateConfig(config *Config) error {
	src := config.Source
	configured := 0
	if src.Path != "" {
		configured++
	}
	if src.URL != "" {
		configured++
	}
	sqlSet := src.SQLDriver != "" || src.SQLDSN != "" || src.SQLTable != ""
	if sqlSet {
		configured++
	}
	switch {
	case configured == 0:
		return errors.ConfigInvalid("one of DATASET_PATH, DATASET_URL or DATASET_SQL_* is required")
	case configured > 1:
		return errors.ConfigInvalid("DATASET_PATH, DATASET_URL and DATASET_SQL_* are mutually exclusive")
	}
	if sqlSet && (src.SQLDriver == "" || src.SQLDSN == "" || src.SQLTable == "") {
		return errors.ConfigInvalid("DATASET_SQL_DRIVER, DATASET_SQL_DSN and DATASET_SQL_TABLE must be set together")
	}
	if src.URL != "" && !strings.HasPrefix(src.URL, "http://") && !strings.HasPrefix(src.URL, "https://") {
		return errors.ConfigInvalid(fmt.Sprintf("DATASET_URL %q must be an http(s) URL", src.URL))
	}
	if src.FetchTimeout <= 0 {
		return errors.ConfigInvalid("FETCH_TIMEOUT must be positive")
	}

	if err := config.Policy.Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s=%q is not an integer", key, value))
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s=%q is not a boolean", key, value))
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s=%q is not a duration", key, value))
	}
	return d, nil
}

// getEnvList splits a comma separated variable, nil when unset
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
