package config

import (
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/bandkit/pkg/codec"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./data", config.DataDir)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Equal(t, "auto", config.Security.APIKey)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "native", config.Codec.ByteOrder)
	assert.False(t, config.Codec.RangeCheck)
	assert.Equal(t, "zstd", config.Storage.Compression)
	assert.NoError(t, config.Validate())
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64) // 32 bytes = 64 hex characters

		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})

	t.Run("zero length", func(t *testing.T) {
		key, err := GenerateSecureKey(0)
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir := t.TempDir()

		configPath := filepath.Join(tmpDir, "config.yaml")
		expectedConfig := &Config{
			DataDir: "/custom/data",
			Port:    9000,
			Bind:    "0.0.0.0",
			Security: Security{
				APIKey: "test-api-key",
			},
			Logging: Logging{
				Level: "debug",
			},
			Codec: Codec{
				ByteOrder:  "big",
				RangeCheck: true,
			},
			Storage: Storage{
				Compression: "none",
				NoSync:      true,
			},
		}

		err := SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "partial.yaml")
		err := os.WriteFile(configPath, []byte("port: 9100\ncodec:\n  range_check: true\n"), 0644)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, 9100, loadedConfig.Port)
		assert.True(t, loadedConfig.Codec.RangeCheck)
		assert.Equal(t, "native", loadedConfig.Codec.ByteOrder)
		assert.Equal(t, "./data", loadedConfig.DataDir)
		assert.Equal(t, "zstd", loadedConfig.Storage.Compression)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	config := DefaultConfig()

	err := SaveConfig(config, configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	dataDir := "/custom/data/dir"

	config, err := BootstrapConfig(configPath, dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, config.DataDir)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Equal(t, "info", config.Logging.Level)

	assert.NotEqual(t, "auto", config.Security.APIKey)
	assert.Len(t, config.Security.APIKey, 64)
	_, err = hex.DecodeString(config.Security.APIKey)
	assert.NoError(t, err)

	assert.True(t, ConfigExists(configPath))

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "bandkit")
	assert.Contains(t, path, ".yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	err := os.WriteFile(existingPath, []byte("test"), 0644)
	require.NoError(t, err)

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}

func TestConfigYAMLMarshalling(t *testing.T) {
	config := &Config{
		DataDir: "/test/data",
		Port:    9999,
		Bind:    "localhost",
		Security: Security{
			APIKey: "api-key-456",
		},
		Logging: Logging{
			Level: "warn",
		},
		Codec: Codec{
			ByteOrder: "little",
		},
		Storage: Storage{
			Compression: "zstd",
		},
	}

	data, err := yaml.Marshal(config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "byte_order: little")
	assert.Contains(t, string(data), "api_key: api-key-456")

	var unmarshalled Config
	err = yaml.Unmarshal(data, &unmarshalled)
	require.NoError(t, err)

	assert.Equal(t, config, &unmarshalled)
}

func TestSaveConfigErrorHandling(t *testing.T) {
	config := DefaultConfig()

	// A regular file where a directory is expected
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := SaveConfig(config, filepath.Join(blocker, "sub", "config.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}

func TestCodecOrder(t *testing.T) {
	testCases := []struct {
		value string
		want  binary.ByteOrder
	}{
		{"", codec.NativeOrder()},
		{"native", codec.NativeOrder()},
		{"little", binary.LittleEndian},
		{"LE", binary.LittleEndian},
		{"big", binary.BigEndian},
		{"be", binary.BigEndian},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			got, err := Codec{ByteOrder: tc.value}.Order()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := Codec{ByteOrder: "middle"}.Order()
	assert.Error(t, err)
}

func TestConfigPixelCodec(t *testing.T) {
	config := DefaultConfig()
	config.Codec = Codec{ByteOrder: "big", RangeCheck: true}

	c, err := config.PixelCodec()
	require.NoError(t, err)
	assert.Equal(t, binary.BigEndian, c.ByteOrder())
	assert.True(t, c.RangeCheck())

	samples, err := c.Decode([]byte{0x01, 0x02}, codec.Int16)
	require.NoError(t, err)
	assert.Equal(t, []int64{258}, samples.Ints)

	config.Codec.ByteOrder = "sideways"
	_, err = config.PixelCodec()
	assert.Error(t, err)
}

func TestConfigStoreConfig(t *testing.T) {
	config := DefaultConfig()
	config.DataDir = "/srv/bandkit"
	config.Storage.NoSync = true

	sc := config.StoreConfig()
	assert.Equal(t, "/srv/bandkit", sc.DataDir)
	assert.Equal(t, "zstd", sc.Compression)
	assert.True(t, sc.NoSync)
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"bad byte order", func(c *Config) { c.Codec.ByteOrder = "pdp" }},
		{"bad compression", func(c *Config) { c.Storage.Compression = "lz4" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestLoggingDebug(t *testing.T) {
	assert.True(t, Logging{Level: "debug"}.Debug())
	assert.True(t, Logging{Level: "DEBUG"}.Debug())
	assert.False(t, Logging{Level: "info"}.Debug())
}
