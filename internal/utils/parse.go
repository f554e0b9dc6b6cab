package utils

import (
	"os"

	"github.com/BurntSushi/toml"
)

// LoadTOMLFile decodes a TOML file into config. On a decode error the
// file may still be partially salvageable; see ParseTOMLWithRecovery.
func LoadTOMLFile(path string, config any) error {
	_, err := toml.DecodeFile(path, config)
	return err
}

// ParseTOMLWithRecovery re-reads a TOML file into a loose map so callers
// can salvage whichever sections still decode after a typed decode
// failed.
func ParseTOMLWithRecovery(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed := make(map[string]any)
	if _, err := toml.Decode(string(data), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// ExtractSection pulls one named table out of loosely parsed TOML.
func ExtractSection(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

// ExtractInt64 reads an integer key from a loose table. TOML integers
// decode as int64; the value is narrowed for the config fields.
func ExtractInt64(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

// ExtractString reads a string key from a loose table.
func ExtractString(data map[string]any, key string) (string, bool) {
	val, ok := data[key].(string)
	return val, ok
}

// ExtractBool reads a bool key from a loose table.
func ExtractBool(data map[string]any, key string) (bool, bool) {
	val, ok := data[key].(bool)
	return val, ok
}
