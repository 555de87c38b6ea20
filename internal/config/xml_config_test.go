// xml_config_test.go - Tests for XML configuration loading
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("creates default config when file missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "TestForgeStudio.config")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}

		if cfg.Server.Port != 8090 {
			t.Errorf("Expected default port 8090, got %d", cfg.Server.Port)
		}
		if cfg.Polling.IntervalSeconds != 3 || cfg.Polling.MaxAttempts != 100 {
			t.Errorf("Unexpected polling defaults: %+v", cfg.Polling)
		}
		if cfg.Upstream.BaseURL == "" {
			t.Error("Expected default upstream base URL")
		}

		// The default file should have been written for the operator.
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected config file to be created: %v", err)
		}
	})

	t.Run("loads values from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "TestForgeStudio.config")
		content := `<?xml version="1.0"?>
<TestForgeStudio>
  <Server><Port>9001</Port><BindAddress>127.0.0.1</BindAddress></Server>
  <Upstream><BaseURL>http://gen:8000</BaseURL><RequestTimeoutSeconds>60</RequestTimeoutSeconds></Upstream>
  <Polling><IntervalSeconds>1</IntervalSeconds><MaxAttempts>10</MaxAttempts></Polling>
</TestForgeStudio>`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}

		if cfg.Server.Port != 9001 {
			t.Errorf("Expected port 9001, got %d", cfg.Server.Port)
		}
		if cfg.Upstream.BaseURL != "http://gen:8000" {
			t.Errorf("Unexpected upstream URL: %s", cfg.Upstream.BaseURL)
		}
		if cfg.Polling.MaxAttempts != 10 {
			t.Errorf("Expected 10 max attempts, got %d", cfg.Polling.MaxAttempts)
		}
		if cfg.GetServerAddr() != "127.0.0.1:9001" {
			t.Errorf("Unexpected server addr: %s", cfg.GetServerAddr())
		}
	})

	t.Run("environment variables override file values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "TestForgeStudio.config")
		t.Setenv("PORT", "7777")
		t.Setenv("UPSTREAM_URL", "http://override:9000")

		content := `<?xml version="1.0"?>
<TestForgeStudio>
  <Server><Port>9001</Port></Server>
  <Upstream><BaseURL>http://gen:8000</BaseURL></Upstream>
</TestForgeStudio>`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}

		if cfg.Server.Port != 7777 {
			t.Errorf("Expected PORT override, got %d", cfg.Server.Port)
		}
		if cfg.Upstream.BaseURL != "http://override:9000" {
			t.Errorf("Expected UPSTREAM_URL override, got %s", cfg.Upstream.BaseURL)
		}
	})

	t.Run("resolves relative storage paths", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "TestForgeStudio.config")
		content := `<?xml version="1.0"?>
<TestForgeStudio>
  <Storage><DataDirectory>./data</DataDirectory><UploadsDirectory>./data/uploads</UploadsDirectory></Storage>
</TestForgeStudio>`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}

		if !filepath.IsAbs(cfg.Storage.DataDirectory) {
			t.Errorf("Expected absolute data dir, got %s", cfg.Storage.DataDirectory)
		}
		if cfg.Storage.DataDirectory != filepath.Join(dir, "data") {
			t.Errorf("Unexpected data dir: %s", cfg.Storage.DataDirectory)
		}
	})
}

func TestEnsureDirectories(t *testing.T) {
	t.Run("creates all storage directories", func(t *testing.T) {
		dir := t.TempDir()
		cfg := DefaultConfig()
		cfg.Storage.DataDirectory = filepath.Join(dir, "data")
		cfg.Storage.UploadsDirectory = filepath.Join(dir, "data", "uploads")
		cfg.Storage.TempDirectory = filepath.Join(dir, "data", "temp")
		cfg.Storage.SessionsDirectory = filepath.Join(dir, "data", "sessions")

		if err := cfg.EnsureDirectories(); err != nil {
			t.Fatalf("EnsureDirectories failed: %v", err)
		}

		for _, d := range []string{
			cfg.Storage.DataDirectory,
			cfg.Storage.UploadsDirectory,
			cfg.Storage.TempDirectory,
			cfg.Storage.SessionsDirectory,
		} {
			if _, err := os.Stat(d); err != nil {
				t.Errorf("Expected directory %s: %v", d, err)
			}
		}
	})
}

func TestLoadUploadRules(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		rules, err := LoadUploadRules(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("LoadUploadRules failed: %v", err)
		}
		if rules.MaxUploadSizeMB != 10 || rules.DefaultNumRows != 30 || rules.MaxNumRows != 100 {
			t.Errorf("Unexpected defaults: %+v", rules)
		}
		if len(rules.AllowedExtensions) != 5 {
			t.Errorf("Unexpected default extensions: %v", rules.AllowedExtensions)
		}
	})

	t.Run("loads and normalizes YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "upload_rules.yaml")
		content := `allowed_extensions: ["CSV", ".docx", " txt "]
max_upload_size_mb: 20
default_num_rows: 10
max_num_rows: 50
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write rules: %v", err)
		}

		rules, err := LoadUploadRules(path)
		if err != nil {
			t.Fatalf("LoadUploadRules failed: %v", err)
		}
		if rules.AllowedExtensions[0] != ".csv" || rules.AllowedExtensions[2] != ".txt" {
			t.Errorf("Expected normalized extensions, got %v", rules.AllowedExtensions)
		}
		if rules.MaxUploadSizeMB != 20 || rules.MaxNumRows != 50 {
			t.Errorf("Unexpected rules: %+v", rules)
		}
	})

	t.Run("malformed YAML is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "upload_rules.yaml")
		if err := os.WriteFile(path, []byte("allowed_extensions: [unclosed"), 0644); err != nil {
			t.Fatalf("Failed to write rules: %v", err)
		}

		if _, err := LoadUploadRules(path); err == nil {
			t.Error("Expected error for malformed YAML")
		}
	})
}
