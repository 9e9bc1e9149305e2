/*
Package config manages the TOML (or YAML) config for wordchain.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/charmbracelet/log"
)

// Corpus sources understood by the corpus loader.
const (
	SourceSample = "sample"
	SourceFile   = "file"
	SourceDir    = "dir"
	SourceJSONL  = "jsonl"
	SourceBolt   = "bolt"
)

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine" yaml:"engine"`
	Corpus CorpusConfig `toml:"corpus" yaml:"corpus"`
	Server ServerConfig `toml:"server" yaml:"server"`
	CLI    CliConfig    `toml:"cli" yaml:"cli"`
}

// EngineConfig tunes the suggestion engine.
type EngineConfig struct {
	CacheSize int `toml:"cache_size" yaml:"cache_size"`
}

// CorpusConfig says where training text comes from.
type CorpusConfig struct {
	Source string `toml:"source" yaml:"source"`
	Path   string `toml:"path" yaml:"path"`
	Field  string `toml:"field" yaml:"field"`
	Bucket string `toml:"bucket" yaml:"bucket"`
}

// ServerConfig has IPC and HTTP server options.
type ServerConfig struct {
	MaxLimit     int     `toml:"max_limit" yaml:"max_limit"`
	DefaultLimit int     `toml:"default_limit" yaml:"default_limit"`
	MaxPrefix    int     `toml:"max_prefix" yaml:"max_prefix"`
	RateLimit    float64 `toml:"rate_limit" yaml:"rate_limit"`
	HTTPAddr     string  `toml:"http_addr" yaml:"http_addr"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	MaxResults int `toml:"max_results" yaml:"max_results"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordchain")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordchain")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/wordchain/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			CacheSize: 256,
		},
		Corpus: CorpusConfig{
			Source: SourceSample,
			Field:  "text",
			Bucket: "documents",
		},
		Server: ServerConfig{
			MaxLimit:     64,
			DefaultLimit: 10,
			MaxPrefix:    60,
			RateLimit:    0,
			HTTPAddr:     ":8080",
		},
		CLI: CliConfig{
			MaxResults: 3,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file, or YAML when the path ends in .yaml/.yml.
// Values missing from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadConfigFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse salvages every well-typed key from a file that failed to decode
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(section, &config.Corpus)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.normalize()
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		engine.CacheSize = val
	}
}

func extractCorpusConfig(data map[string]any, corpus *CorpusConfig) {
	if val, ok := utils.ExtractString(data, "source"); ok {
		corpus.Source = val
	}
	if val, ok := utils.ExtractString(data, "path"); ok {
		corpus.Path = val
	}
	if val, ok := utils.ExtractString(data, "field"); ok {
		corpus.Field = val
	}
	if val, ok := utils.ExtractString(data, "bucket"); ok {
		corpus.Bucket = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractFloat(data, "rate_limit"); ok {
		server.RateLimit = val
	}
	if val, ok := utils.ExtractString(data, "http_addr"); ok {
		server.HTTPAddr = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "max_results"); ok {
		cli.MaxResults = val
	}
}

// normalize replaces values that would make the engine or servers unusable.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Engine.CacheSize < 0 {
		log.Warnf("engine.cache_size %d is negative, caching disabled", c.Engine.CacheSize)
		c.Engine.CacheSize = 0
	}
	if c.Corpus.Source == "" {
		c.Corpus.Source = def.Corpus.Source
	}
	if c.Server.MaxLimit <= 0 {
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.DefaultLimit <= 0 {
		c.Server.DefaultLimit = def.Server.DefaultLimit
	}
	if c.Server.DefaultLimit > c.Server.MaxLimit {
		c.Server.DefaultLimit = c.Server.MaxLimit
	}
	if c.Server.RateLimit < 0 {
		c.Server.RateLimit = 0
	}
	if c.CLI.MaxResults <= 0 {
		c.CLI.MaxResults = def.CLI.MaxResults
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML or YAML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveConfigFile(config, configPath)
}

// Update changes the server limits and saves to file. Nil arguments keep
// the current value.
func (c *Config) Update(configPath string, maxLimit, defaultLimit, maxPrefix *int, rateLimit *float64) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if defaultLimit != nil {
		server.DefaultLimit = *defaultLimit
	}
	if maxPrefix != nil {
		server.MaxPrefix = *maxPrefix
	}
	if rateLimit != nil {
		server.RateLimit = *rateLimit
	}
	c.normalize()
	return SaveConfig(c, configPath)
}
