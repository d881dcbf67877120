package arbor

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings is a key/value store for toolkit-wide options, readable from a
// config file and ARBOR_* environment variables. Keys are case-insensitive
// and may be dotted ("transition.duration").
type Settings struct {
	v *viper.Viper
}

// NewSettings returns an empty store that also reads ARBOR_* environment
// variables, with dots in keys mapped to underscores.
func NewSettings() *Settings {
	v := viper.New()
	v.SetEnvPrefix("ARBOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Settings{v: v}
}

// LoadSettings reads path (yaml, toml or json, by extension) into a new store.
func LoadSettings(path string) (*Settings, error) {
	s := NewSettings()
	s.v.SetConfigFile(path)
	if err := s.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("load settings %s: %w", path, err)
	}
	return s, nil
}

// Get returns the value under key, or def when the key is unset or holds a
// zero value.
func (s *Settings) Get(key string, def any) any {
	if !s.v.IsSet(key) {
		return def
	}
	v := s.v.Get(key)
	if isZero(v) {
		return def
	}
	return v
}

// GetFloat returns key as a number, or def when unset or not numeric.
func (s *Settings) GetFloat(key string, def float64) float64 {
	f, err := toFloat(s.Get(key, def))
	if err != nil {
		return def
	}
	return f
}

// GetString returns key as text, or def when unset.
func (s *Settings) GetString(key string, def string) string {
	return toText(s.Get(key, def))
}

// GetBool returns key as a truth value, or def when unset.
func (s *Settings) GetBool(key string, def bool) bool {
	return toBool(s.Get(key, def))
}

// Set stores value under key, overriding file and environment values.
func (s *Settings) Set(key string, value any) {
	s.v.Set(key, value)
}

// SetAll stores every entry of values.
func (s *Settings) SetAll(values map[string]any) {
	for k, v := range values {
		s.Set(k, v)
	}
}

// Keys returns every key known to the store.
func (s *Settings) Keys() []string {
	return s.v.AllKeys()
}

func isZero(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	}
	if isNumber(v) {
		f, _ := toFloat(v)
		return f == 0
	}
	return false
}
