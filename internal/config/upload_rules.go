package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// UploadRules are the upload and generation bounds, loadable from a YAML
// defaults file so operators can adjust them without recompiling.
type UploadRules struct {
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxUploadSizeMB   int      `yaml:"max_upload_size_mb"`
	DefaultNumRows    int      `yaml:"default_num_rows"`
	MaxNumRows        int      `yaml:"max_num_rows"`
}

// DefaultUploadRules returns the built-in rules.
func DefaultUploadRules() *UploadRules {
	return &UploadRules{
		AllowedExtensions: []string{".csv", ".json", ".txt", ".docx", ".xlsx"},
		MaxUploadSizeMB:   10,
		DefaultNumRows:    30,
		MaxNumRows:        100,
	}
}

// LoadUploadRules loads rules from a YAML file. A missing file yields the
// defaults; a malformed file is an error so bad deployments fail loudly.
func LoadUploadRules(path string) (*UploadRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultUploadRules(), nil
		}
		return nil, fmt.Errorf("reading upload rules: %w", err)
	}

	rules := DefaultUploadRules()
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("parsing upload rules: %w", err)
	}

	// Normalize extensions to lowercase dotted form.
	for i, ext := range rules.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		rules.AllowedExtensions[i] = ext
	}

	if rules.MaxUploadSizeMB <= 0 {
		rules.MaxUploadSizeMB = 10
	}
	if rules.DefaultNumRows <= 0 {
		rules.DefaultNumRows = 30
	}
	if rules.MaxNumRows <= 0 {
		rules.MaxNumRows = 100
	}

	return rules, nil
}
