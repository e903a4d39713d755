package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultHTTPTimeoutSec   = 20
	defaultCheckConcurrency = 8
)

const (
	defaultUserAgent  = "bbopml/0.1"
	defaultGenerator  = "bbopml"
	defaultListenAddr = "127.0.0.1:8765"
	defaultLogLevel   = "info"
	configFolderName  = "bbopml"
	configFileName    = "config.toml"
	configPathEnvName = "XDG_CONFIG_HOME"
)

type Config struct {
	DBPath           string
	HTTPTimeout      time.Duration
	UserAgent        string
	Generator        string
	ExtendedExport   bool
	AllowEmptyGuides bool
	CheckConcurrency int
	ListenAddr       string
	LogLevel         string
}

func LoadConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	defaultDB := filepath.Join(home, ".local", "share", "bbopml", "library.db")

	cfg := Config{
		DBPath:           defaultDB,
		HTTPTimeout:      defaultHTTPTimeoutSec * time.Second,
		UserAgent:        defaultUserAgent,
		Generator:        defaultGenerator,
		ExtendedExport:   true,
		CheckConcurrency: defaultCheckConcurrency,
		ListenAddr:       defaultListenAddr,
		LogLevel:         defaultLogLevel,
	}

	configPath, hasConfig, err := findConfigPath(home)
	if err != nil {
		return Config{}, err
	}
	if hasConfig {
		fileCfg, err := loadFileConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fileCfg)
	}

	applyEnvOverrides(&cfg)

	if cfg.CheckConcurrency < 1 {
		cfg.CheckConcurrency = defaultCheckConcurrency
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeoutSec * time.Second
	}
	return cfg, nil
}

type fileConfig struct {
	DBPath             *string `toml:"db_path"`
	HTTPTimeoutSeconds *int    `toml:"http_timeout_seconds"`
	UserAgent          *string `toml:"user_agent"`
	Generator          *string `toml:"generator"`
	ExtendedExport     *bool   `toml:"extended_export"`
	AllowEmptyGuides   *bool   `toml:"allow_empty_guides"`
	CheckConcurrency   *int    `toml:"check_concurrency"`
	ListenAddr         *string `toml:"listen_addr"`
	LogLevel           *string `toml:"log_level"`
}

func findConfigPath(home string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if xdgConfigHome := strings.TrimSpace(os.Getenv(configPathEnvName)); xdgConfigHome != "" {
		candidates = append(candidates, filepath.Join(xdgConfigHome, configFolderName, configFileName))
	}
	candidates = append(candidates, filepath.Join(home, ".config", configFolderName, configFileName))

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", false, fmt.Errorf("config path %q is a directory; expected a file", candidate)
			}
			return candidate, true, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return "", false, fmt.Errorf("failed to read config path %q: %w", candidate, err)
	}
	return "", false, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		unknown := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		sort.Strings(unknown)
		return fileConfig{}, fmt.Errorf("invalid config file %q: unknown key(s): %s", path, strings.Join(unknown, ", "))
	}
	if err := validateFileConfig(path, cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func validateFileConfig(path string, cfg fileConfig) error {
	if cfg.DBPath != nil && strings.TrimSpace(*cfg.DBPath) == "" {
		return fmt.Errorf("invalid config file %q: db_path must be non-empty when provided", path)
	}
	if cfg.HTTPTimeoutSeconds != nil && *cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid config file %q: http_timeout_seconds must be > 0", path)
	}
	if cfg.CheckConcurrency != nil && *cfg.CheckConcurrency < 1 {
		return fmt.Errorf("invalid config file %q: check_concurrency must be >= 1", path)
	}
	if cfg.ListenAddr != nil && strings.TrimSpace(*cfg.ListenAddr) == "" {
		return fmt.Errorf("invalid config file %q: listen_addr must be non-empty when provided", path)
	}
	if cfg.LogLevel != nil {
		switch strings.ToLower(strings.TrimSpace(*cfg.LogLevel)) {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("invalid config file %q: log_level must be one of debug, info, warn, error", path)
		}
	}
	return nil
}

func applyFileConfig(cfg *Config, fileCfg fileConfig) {
	if fileCfg.DBPath != nil {
		cfg.DBPath = *fileCfg.DBPath
	}
	if fileCfg.HTTPTimeoutSeconds != nil {
		cfg.HTTPTimeout = time.Duration(*fileCfg.HTTPTimeoutSeconds) * time.Second
	}
	if fileCfg.UserAgent != nil {
		cfg.UserAgent = *fileCfg.UserAgent
	}
	if fileCfg.Generator != nil {
		cfg.Generator = *fileCfg.Generator
	}
	if fileCfg.ExtendedExport != nil {
		cfg.ExtendedExport = *fileCfg.ExtendedExport
	}
	if fileCfg.AllowEmptyGuides != nil {
		cfg.AllowEmptyGuides = *fileCfg.AllowEmptyGuides
	}
	if fileCfg.CheckConcurrency != nil {
		cfg.CheckConcurrency = *fileCfg.CheckConcurrency
	}
	if fileCfg.ListenAddr != nil {
		cfg.ListenAddr = *fileCfg.ListenAddr
	}
	if fileCfg.LogLevel != nil {
		cfg.LogLevel = *fileCfg.LogLevel
	}
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("BBOPML_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("BBOPML_HTTP_TIMEOUT_SECONDS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	if v, ok := os.LookupEnv("BBOPML_USER_AGENT"); ok && v != "" {
		cfg.UserAgent = v
	}
	if v, ok := os.LookupEnv("BBOPML_GENERATOR"); ok {
		cfg.Generator = v
	}
	if v, ok := os.LookupEnv("BBOPML_EXTENDED_EXPORT"); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ExtendedExport = b
		}
	}
	if v, ok := os.LookupEnv("BBOPML_ALLOW_EMPTY_GUIDES"); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AllowEmptyGuides = b
		}
	}
	if v, ok := os.LookupEnv("BBOPML_CHECK_CONCURRENCY"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.CheckConcurrency = n
		}
	}
	if v, ok := os.LookupEnv("BBOPML_LISTEN_ADDR"); ok && v != "" {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("BBOPML_LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
}
