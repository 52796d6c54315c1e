package dataloader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader loads and validates structured JSON/YAML auxiliary files used by
// lookup components (spec section 2 item 9: "Small but part of the trust
// boundary"), caching parsed documents by path.
type Loader struct {
	cache *Cache
}

// NewLoader builds a Loader backed by a Cache with the given config.
func NewLoader(cfg Config) *Loader {
	return &Loader{cache: NewCache(cfg)}
}

// Load reads path, parses it as JSON or YAML based on its extension, and
// returns the decoded value as a generic map/slice tree. Unsupported
// extensions and malformed documents are rejected rather than silently
// passed through, since lookup components trust this data implicitly.
func (l *Loader) Load(path string) (any, error) {
	if cached, ok := l.cache.Get(path); ok {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataloader: read %s: %w", path, err)
	}

	var value any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("dataloader: parse json %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("dataloader: parse yaml %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("dataloader: unsupported file extension for %s", path)
	}

	l.cache.Set(path, value)
	return value, nil
}

// Close releases the loader's background cache cleanup goroutine.
func (l *Loader) Close() { l.cache.Close() }
