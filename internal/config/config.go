package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is loaded once at startup and treated as read-only afterwards.
type Config struct {
	BasePath              string   `yaml:"base_path"`
	IndexExtensions       []string `yaml:"index_file_extensions"`
	ExcludedFileTypes     []string `yaml:"excluded_file_types"`
	ExcludedFolders       []string `yaml:"excluded_folders"`
	LegacyDirectoryFilter bool     `yaml:"legacy_directory_filter"`

	OutputDir         string `yaml:"output_dir"`
	IndexFile         string `yaml:"index_file"`
	ModulesFile       string `yaml:"modules_file"`
	MetadataCacheSize int    `yaml:"metadata_cache_size"`

	LogLevel    string `yaml:"log_level"`
	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`

	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		IndexExtensions:   []string{},
		ExcludedFileTypes: []string{},
		ExcludedFolders:   []string{},
		OutputDir:         ".",
		IndexFile:         "index.json",
		ModulesFile:       "modules.json",
		MetadataCacheSize: 4096,
		LogLevel:          "DEBUG",
		LogFilePath:       "app.log",
		Addr:              ":5000",
	}
}

// LoadConfig reads the optional YAML file at path, then the optional dotenv
// file, then the process environment. Missing files are not an error.
func LoadConfig(path, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config YAML: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if envFile != "" {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	// Initialize slices if nil (for empty configs)
	if cfg.IndexExtensions == nil {
		cfg.IndexExtensions = []string{}
	}
	if cfg.ExcludedFileTypes == nil {
		cfg.ExcludedFileTypes = []string{}
	}
	if cfg.ExcludedFolders == nil {
		cfg.ExcludedFolders = []string{}
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("BASE_PATH"); ok {
		c.BasePath = strings.TrimSpace(v)
	}
	if v, ok := lookup("INDEX_FILE_EXTENSIONS"); ok {
		c.IndexExtensions = SplitList(v)
	}
	if v, ok := lookup("EXCLUDED_FILE_TYPES"); ok {
		c.ExcludedFileTypes = SplitList(v)
	}
	if v, ok := lookup("EXCLUDED_FOLDERS"); ok {
		c.ExcludedFolders = SplitList(v)
	}
	if v, ok := lookup("OUTPUT_DIR"); ok && strings.TrimSpace(v) != "" {
		c.OutputDir = strings.TrimSpace(v)
	}
	if v, ok := lookup("INDEX_FILE"); ok && strings.TrimSpace(v) != "" {
		c.IndexFile = strings.TrimSpace(v)
	}
	if v, ok := lookup("MODULES_FILE"); ok && strings.TrimSpace(v) != "" {
		c.ModulesFile = strings.TrimSpace(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok && strings.TrimSpace(v) != "" {
		c.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup("LOG_FILE_PATH"); ok && strings.TrimSpace(v) != "" {
		c.LogFilePath = strings.TrimSpace(v)
	}
	if v, ok := lookup("ADDR"); ok && strings.TrimSpace(v) != "" {
		c.Addr = strings.TrimSpace(v)
	}

	var err error
	if c.LogToFile, err = lookupBool(lookup, "LOG_TO_FILE", c.LogToFile); err != nil {
		return err
	}
	if c.LegacyDirectoryFilter, err = lookupBool(lookup, "LEGACY_DIRECTORY_FILTER", c.LegacyDirectoryFilter); err != nil {
		return err
	}
	if v, ok := lookup("METADATA_CACHE_SIZE"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid METADATA_CACHE_SIZE %q: %w", v, err)
		}
		c.MetadataCacheSize = n
	}
	return nil
}

func lookupBool(lookup func(string) (string, bool), key string, fallback bool) (bool, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

// SplitList splits a comma separated value, dropping blank items.
func SplitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ExcludedFolderPaths resolves ExcludedFolders against BasePath into absolute
// paths. Absolute entries are kept as they are.
func (c *Config) ExcludedFolderPaths() []string {
	paths := make([]string, 0, len(c.ExcludedFolders))
	for _, folder := range c.ExcludedFolders {
		p := folder
		if !filepath.IsAbs(p) {
			p = filepath.Join(c.BasePath, p)
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		paths = append(paths, filepath.Clean(p))
	}
	return paths
}

// OutputPath joins name onto OutputDir.
func (c *Config) OutputPath(name string) string {
	if c.OutputDir == "" {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}
