package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Server struct {
		Seller struct {
			Addr string `koanf:"addr"`
		} `koanf:"seller"`
		Buyer struct {
			Addr string `koanf:"addr"`
		} `koanf:"buyer"`
	} `koanf:"server"`
	Storage struct {
		Backend string `koanf:"backend"`
	} `koanf:"storage"`
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/config.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  seller:
    addr: "0.0.0.0:8081"
  buyer:
    addr: "0.0.0.0:8082"
storage:
  backend: "sqlite"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader()
	if err := l.LoadFile(configPath); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if addr := l.GetString("server.seller.addr"); addr != "0.0.0.0:8081" {
		t.Errorf("server.seller.addr = %q, want %q", addr, "0.0.0.0:8081")
	}
	if backend := l.GetString("storage.backend"); backend != "sqlite" {
		t.Errorf("storage.backend = %q, want %q", backend, "sqlite")
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("STALLGATE_SERVER_SELLER_ADDR", "127.0.0.1:9081")
	t.Setenv("STALLGATE_STORAGE_BACKEND", "memory")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if addr := l.GetString("server.seller.addr"); addr != "127.0.0.1:9081" {
		t.Errorf("server.seller.addr = %q, want %q", addr, "127.0.0.1:9081")
	}
	if backend := l.GetString("storage.backend"); backend != "memory" {
		t.Errorf("storage.backend = %q, want %q", backend, "memory")
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_SERVER_PORT", "9090")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if port := l.GetString("server.port"); port != "9090" {
		t.Errorf("server.port = %q, want %q", port, "9090")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	data := map[string]any{
		"server.buyer.addr": "localhost:3000",
		"storage.backend":   "memory",
	}

	if err := l.LoadMap(data); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if addr := l.GetString("server.buyer.addr"); addr != "localhost:3000" {
		t.Errorf("server.buyer.addr = %q, want %q", addr, "localhost:3000")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  seller:
    addr: "from-file:8081"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("STALLGATE_SERVER_SELLER_ADDR", "from-env:9081")

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Environment should override file.
	if cfg.Server.Seller.Addr != "from-env:9081" {
		t.Errorf("Addr = %q, want %q (env should override file)",
			cfg.Server.Seller.Addr, "from-env:9081")
	}
}

func TestLoader_Unmarshal(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  seller:
    addr: "0.0.0.0:8081"
  buyer:
    addr: "0.0.0.0:8082"
storage:
  backend: "memory"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Seller.Addr != "0.0.0.0:8081" {
		t.Errorf("Seller.Addr = %q, want %q", cfg.Server.Seller.Addr, "0.0.0.0:8081")
	}
	if cfg.Server.Buyer.Addr != "0.0.0.0:8082" {
		t.Errorf("Buyer.Addr = %q, want %q", cfg.Server.Buyer.Addr, "0.0.0.0:8082")
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q, want %q", cfg.Storage.Backend, "memory")
	}
}

func TestLoader_IsLoaded(t *testing.T) {
	l := NewLoader()

	if l.IsLoaded() {
		t.Error("IsLoaded() should be false before Load()")
	}

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load()")
	}
}

func TestLoader_All(t *testing.T) {
	l := NewLoader()
	l.LoadMap(map[string]any{
		"key1": "value1",
		"key2": "value2",
	})

	all := l.All()
	if len(all) < 2 {
		t.Errorf("All() returned %d keys, want at least 2", len(all))
	}
}
