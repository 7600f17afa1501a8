package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/bandkit/pkg/api"
	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/config"
	"github.com/ssargent/bandkit/pkg/di"
)

// executeCommand runs a fresh command tree with stdin and returns the combined output
func executeCommand(stdin string, args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// setupTestConfig writes a little-endian config with a temporary data dir
func setupTestConfig(t *testing.T) string {
	t.Helper()
	SetContainer(di.NewContainer())

	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(tmpDir, "data")
	cfg.Codec.ByteOrder = "little"
	cfg.Storage.NoSync = true

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, config.SaveConfig(cfg, configPath))
	return configPath
}

func TestTypesCommand(t *testing.T) {
	configPath := setupTestConfig(t)

	out, err := executeCommand("", "types", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "GDT_INT16")
	assert.Contains(t, out, "signed16")
	assert.Contains(t, out, "GDT_CFLOAT64")

	out, err = executeCommand("", "types", "--config", configPath, "--format", "json")
	require.NoError(t, err)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 12)
	assert.Equal(t, "GDT_BYTE", rows[1]["name"])
	assert.Equal(t, "text", rows[1]["host_type"])
	assert.Nil(t, rows[8]["layout"])
}

func TestDecodeCommand(t *testing.T) {
	configPath := setupTestConfig(t)

	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{"int16 little endian", "\x01\x02", []string{"--type", "Int16"}, "513\n"},
		{"int16 big endian", "\x01\x02", []string{"--type", "Int16", "--byte-order", "big"}, "258\n"},
		{"byte unsigned", "\xff\x00", []string{"--type", "Byte"}, "255 0\n"},
		{"float32", "\x00\x00\x80\x3f", []string{"--type", "GDT_FLOAT32"}, "1\n"},
		{"rows", "\x01\x00\x02\x00\x03\x00\x04\x00\x05\x00", []string{"--type", "UInt16", "--xsize", "2"}, "1 2\n3 4\n"},
		{"trailing byte", "\xff\xff\x01", []string{"--type", "Int16"}, "-1\n"},
		{"empty input", "", []string{"--type", "Int32"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"decode", "--config", configPath}, tt.args...)
			out, err := executeCommand(tt.stdin, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("json output", func(t *testing.T) {
		out, err := executeCommand("\x00\x00\xc0\x7f\x00\x00\x20\x40", "decode", "--config", configPath, "--type", "Float32", "--format", "json")
		require.NoError(t, err)
		var values []interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &values))
		assert.Equal(t, []interface{}{"NaN", 2.5}, values)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tile.raw")
		require.NoError(t, os.WriteFile(path, []byte{0x07, 0x00, 0x00, 0x00}, 0644))
		out, err := executeCommand("", "decode", "--config", configPath, "--type", "UInt32", path)
		require.NoError(t, err)
		assert.Equal(t, "7\n", out)
	})

	t.Run("complex type", func(t *testing.T) {
		out, err := executeCommand("\x01\x02\x03\x04", "decode", "--config", configPath, "--type", "CInt16")
		require.Error(t, err)
		assert.ErrorIs(t, err, codec.ErrComplexType)
		assert.Contains(t, out, "complex")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := executeCommand("\x01", "decode", "--config", configPath, "--type", "Unknown")
		assert.ErrorIs(t, err, codec.ErrUnsupportedType)
	})
}

func TestEncodeCommand(t *testing.T) {
	configPath := setupTestConfig(t)

	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{"int16", "", []string{"--type", "Int16", "--hex", "--", "513", "-1"}, "0102ffff\n"},
		{"byte wraps", "", []string{"--type", "Byte", "--hex", "300"}, "2c\n"},
		{"byte packs signed", "", []string{"--type", "Byte", "--hex", "--", "-1"}, "ff\n"},
		{"float32 from stdin", "1.5\n2", []string{"--type", "Float32", "--hex"}, "0000c03f00000040\n"},
		{"big endian", "", []string{"--type", "UInt16", "--hex", "--byte-order", "big", "1"}, "0001\n"},
		{"raw output", "", []string{"--type", "Byte", "65", "66"}, "AB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"encode", "--config", configPath}, tt.args...)
			out, err := executeCommand(tt.stdin, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("range check", func(t *testing.T) {
		_, err := executeCommand("", "encode", "--config", configPath, "--type", "Byte", "--range-check", "300")
		assert.ErrorIs(t, err, codec.ErrOutOfRange)
	})

	t.Run("reals for integer type", func(t *testing.T) {
		_, err := executeCommand("", "encode", "--config", configPath, "--type", "Int16", "1.5")
		assert.ErrorIs(t, err, codec.ErrValueKind)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := executeCommand("", "encode", "--config", configPath, "--type", "Float64", "abc")
		assert.Error(t, err)
	})

	t.Run("output file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.raw")
		_, err := executeCommand("", "encode", "--config", configPath, "--type", "Int32", "--output", path, "258")
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x02, 0x01, 0x00, 0x00}, data)
	})
}

func TestParseSamples(t *testing.T) {
	samples, err := parseSamples([]string{"1", "-2"}, codec.Int16)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -2}, samples.Ints)

	samples, err = parseSamples([]string{"1", "2.5"}, codec.Int16)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, samples.Reals)

	samples, err = parseSamples([]string{"1", "NaN"}, codec.Float64)
	require.NoError(t, err)
	assert.Len(t, samples.Reals, 2)

	_, err = parseSamples([]string{"x"}, codec.Byte)
	assert.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	SetContainer(di.NewContainer())
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	dataDir := filepath.Join(tmpDir, "data")

	out, err := executeCommand("", "init", "--config", configPath, "--data-dir", dataDir, "--print-key")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration created")
	assert.Contains(t, out, "API key:")
	assert.True(t, config.ConfigExists(configPath))
	assert.DirExists(t, dataDir)

	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Len(t, cfg.Security.APIKey, 64)

	out, err = executeCommand("", "init", "--config", configPath, "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	_, err = executeCommand("", "init", "--config", configPath, "--data-dir", dataDir, "--force")
	require.NoError(t, err)
	reloaded, err := config.LoadConfig(configPath)
	require.NoError(t, err)
	assert.NotEqual(t, cfg.Security.APIKey, reloaded.Security.APIKey)
}

func TestDatasetCommands(t *testing.T) {
	configPath := setupTestConfig(t)

	out, err := executeCommand("", "dataset", "create", "--config", configPath,
		"--xsize", "3", "--ysize", "2", "--bands", "2", "--type", "Int16", "--format", "json")
	require.NoError(t, err)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	id, ok := created["id"].(string)
	require.True(t, ok)
	assert.Equal(t, "GDT_INT16", created["type"])

	out, err = executeCommand("", "dataset", "list", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "3x2")

	out, err = executeCommand("", "dataset", "info", "--config", configPath, id)
	require.NoError(t, err)
	assert.Contains(t, out, "GDT_INT16")
	assert.Contains(t, out, "integer")

	out, err = executeCommand("", "write", "--config", configPath, id, "2", "--x", "1", "--y", "1", "--w", "2", "--h", "1", "--", "7", "-3")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 samples")

	out, err = executeCommand("", "read", "--config", configPath, id, "2")
	require.NoError(t, err)
	assert.Equal(t, "0 0 0\n0 7 -3\n", out)

	out, err = executeCommand("", "read", "--config", configPath, id, "2", "--y", "1", "--x", "1")
	require.NoError(t, err)
	assert.Equal(t, "7 -3\n", out)

	_, err = executeCommand("1 2 3 4 5 6", "write", "--config", configPath, id, "1")
	require.NoError(t, err)
	out, err = executeCommand("", "read", "--config", configPath, id, "1", "--format", "json")
	require.NoError(t, err)
	var values []float64
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, values)

	_, err = executeCommand("", "read", "--config", configPath, id, "3")
	assert.Error(t, err)
	_, err = executeCommand("", "read", "--config", configPath, id, "1", "--w", "4")
	assert.Error(t, err)
	_, err = executeCommand("", "write", "--config", configPath, id, "1", "--w", "1", "--h", "1", "1", "2")
	assert.Error(t, err)

	out, err = executeCommand("", "dataset", "drop", "--config", configPath, id)
	require.NoError(t, err)
	assert.Contains(t, out, "Dropped dataset")

	_, err = executeCommand("", "dataset", "info", "--config", configPath, id)
	assert.Error(t, err)

	out, err = executeCommand("", "dataset", "list", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No datasets found")
}

func TestOpenStoreWithoutContainer(t *testing.T) {
	SetContainer(nil)
	defer SetContainer(di.NewContainer())

	_, err := openStore(config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency container not initialized")
}

func TestServerConfigFrom(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "debug"

	sc, err := serverConfigFrom(cfg)
	require.NoError(t, err)
	assert.Len(t, sc.APIKey, 64)
	assert.True(t, sc.Debug)
	assert.Equal(t, 8080, sc.Port)

	cfg.Security.APIKey = ""
	sc, err = serverConfigFrom(cfg)
	require.NoError(t, err)
	assert.Empty(t, sc.APIKey)

	cfg.Storage.Compression = "brotli"
	_, err = serverConfigFrom(cfg)
	assert.Error(t, err)
}

type recordingStarter struct {
	config api.ServerConfig
	codec  *codec.PixelCodec
	store  api.IBandStore
}

func (s *recordingStarter) StartServer(store api.IBandStore, pc *codec.PixelCodec, config api.ServerConfig) error {
	s.store = store
	s.codec = pc
	s.config = config
	return nil
}

type recordingServerFactory struct{ starter *recordingStarter }

func (f *recordingServerFactory) CreateServerStarter() api.ServerStarter { return f.starter }

func TestServeCommand(t *testing.T) {
	configPath := setupTestConfig(t)

	starter := &recordingStarter{}
	c := di.NewContainer()
	c.SetServerFactory(&recordingServerFactory{starter: starter})
	SetContainer(c)
	defer SetContainer(di.NewContainer())

	out, err := executeCommand("", "serve", "--config", configPath, "--port", "9123", "--api-key", "k", "--range-check")
	require.NoError(t, err)
	assert.Contains(t, out, "Starting bandkit server")

	assert.Equal(t, 9123, starter.config.Port)
	assert.Equal(t, "127.0.0.1", starter.config.Bind)
	assert.Equal(t, "k", starter.config.APIKey)
	require.NotNil(t, starter.codec)
	assert.True(t, starter.codec.RangeCheck())
	assert.NotNil(t, starter.store)
}
