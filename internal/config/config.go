// Package config handles configuration loading and blog home resolution.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/blogadmin/internal/images"
	"github.com/go-ports/blogadmin/internal/listing"
	"github.com/go-ports/blogadmin/internal/models"
)

// FileName is the per-home config file name.
const FileName = "config.yaml"

// HomeEnv is the environment variable that overrides the blog home.
const HomeEnv = "BLOG_HOME"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// ListingConfig controls the list view.
type ListingConfig struct {
	PageSize int `yaml:"page_size"`
}

// RetentionConfig controls how long soft-deleted posts are kept.
type RetentionConfig struct {
	Days int `yaml:"days"`
}

// ImagesConfig controls image uploads.
type ImagesConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// BlogConfig is the root per-home configuration.
type BlogConfig struct {
	Listing    ListingConfig   `yaml:"listing"`
	Retention  RetentionConfig `yaml:"retention"`
	Images     ImagesConfig    `yaml:"images"`
	Categories []string        `yaml:"categories"`
}

// Default returns a BlogConfig populated with sensible defaults.
func Default() *BlogConfig {
	return &BlogConfig{
		Listing:    ListingConfig{PageSize: listing.DefaultPageSize},
		Retention:  RetentionConfig{Days: 7},
		Images:     ImagesConfig{MaxBytes: images.DefaultMaxBytes},
		Categories: append([]string(nil), models.DefaultCategories...),
	}
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys and non-positive numbers retain their default values.
func Load(path string) (*BlogConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the resolved blog home
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if l, ok := raw["listing"].(map[string]any); ok {
		if v, ok := l["page_size"].(int); ok && v > 0 {
			cfg.Listing.PageSize = v
		}
	}

	if r, ok := raw["retention"].(map[string]any); ok {
		if v, ok := r["days"].(int); ok && v > 0 {
			cfg.Retention.Days = v
		}
	}

	if img, ok := raw["images"].(map[string]any); ok {
		if v, ok := img["max_bytes"].(int); ok && v > 0 {
			cfg.Images.MaxBytes = int64(v)
		}
	}

	if cats, ok := raw["categories"].([]any); ok {
		list := make([]string, 0, len(cats))
		for _, c := range cats {
			if s, ok := c.(string); ok && strings.TrimSpace(s) != "" {
				list = append(list, strings.TrimSpace(s))
			}
		}
		cfg.Categories = list
	}

	return cfg, nil
}

// ---------------------------------------------------------------------------
// Blog home resolution
// ---------------------------------------------------------------------------

// globalConfigPath returns the path to the global blogadmin config file.
// It stores only blog_home.
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "blogadmin", FileName), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveBlogHome returns the blog home path and the source of the resolution.
// Priority: BLOG_HOME env → persisted global config → ~/.blogadmin
// source is one of "env", "config", or "default".
func ResolveBlogHome() (path, source string) {
	if env := os.Getenv(HomeEnv); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedBlogHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".blogadmin"), "default"
}

// GetBlogHome returns the resolved blog home path.
func GetBlogHome() string {
	path, _ := ResolveBlogHome()
	return path
}

// GetPersistedBlogHome reads blog_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedBlogHome() (string, bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", false, err
	}

	raw, err := readRaw(cfgPath)
	if err != nil || raw == nil {
		return "", false, err
	}

	val, _ := raw["blog_home"].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedBlogHome normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedBlogHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	// Other keys in the global file are preserved.
	raw, _ := readRaw(cfgPath)
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["blog_home"] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedBlogHome removes blog_home from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedBlogHome() (bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return false, err
	}

	raw, err := readRaw(cfgPath)
	if err != nil || raw == nil {
		return false, err
	}

	if _, ok := raw["blog_home"]; !ok {
		return false, nil
	}
	delete(raw, "blog_home")

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}

// readRaw loads a yaml file into a plain map. A missing or unparsable file
// yields a nil map and no error.
func readRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- global config path under the user's home
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	return raw, nil
}
