package config

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/storage"
)

// Config represents the bandkit configuration
type Config struct {
	DataDir  string   `yaml:"data_dir"`
	Port     int      `yaml:"port"`
	Bind     string   `yaml:"bind"`
	Security Security `yaml:"security"`
	Logging  Logging  `yaml:"logging"`
	Codec    Codec    `yaml:"codec"`
	Storage  Storage  `yaml:"storage"`
}

// Security contains security-related configuration
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// Debug reports whether debug logging is enabled.
func (l Logging) Debug() bool {
	return strings.EqualFold(l.Level, "debug")
}

// Codec contains pixel codec configuration
type Codec struct {
	ByteOrder  string `yaml:"byte_order"` // native, little or big
	RangeCheck bool   `yaml:"range_check"`
}

// Storage contains band store configuration
type Storage struct {
	Compression string `yaml:"compression"` // zstd or none
	NoSync      bool   `yaml:"no_sync"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Port:    8080,
		Bind:    "127.0.0.1",
		Security: Security{
			APIKey: "auto",
		},
		Logging: Logging{
			Level: "info",
		},
		Codec: Codec{
			ByteOrder: "native",
		},
		Storage: Storage{
			Compression: "zstd",
		},
	}
}

// Order resolves the configured byte order.
func (c Codec) Order() (binary.ByteOrder, error) {
	switch strings.ToLower(c.ByteOrder) {
	case "", "native":
		return codec.NativeOrder(), nil
	case "little", "le":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("invalid byte order %q (want native, little or big)", c.ByteOrder)
	}
}

// PixelCodec builds the pixel codec described by the configuration.
func (c *Config) PixelCodec() (*codec.PixelCodec, error) {
	order, err := c.Codec.Order()
	if err != nil {
		return nil, err
	}
	return codec.NewPixelCodec(codec.WithByteOrder(order), codec.WithRangeCheck(c.Codec.RangeCheck)), nil
}

// StoreConfig returns the band store settings.
func (c *Config) StoreConfig() storage.StoreConfig {
	return storage.StoreConfig{
		DataDir:     c.DataDir,
		Compression: c.Storage.Compression,
		NoSync:      c.Storage.NoSync,
	}
}

// Validate checks the values a server needs before it starts.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := c.Codec.Order(); err != nil {
		return err
	}
	switch c.Storage.Compression {
	case "", "zstd", "none":
	default:
		return fmt.Errorf("invalid compression %q (want zstd or none)", c.Storage.Compression)
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Fields missing from
// the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Validate path to prevent directory traversal
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions (0600)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a new configuration with a generated API key
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Security.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./bandkit.yaml"
	}

	// For Linux/macOS, use ~/.config/bandkit/config.yaml
	return filepath.Join(homeDir, ".config", "bandkit", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
