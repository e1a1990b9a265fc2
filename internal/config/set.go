package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Set for keys outside SettableKeys.
var ErrUnknownKey = errors.New("unknown config key")

var setters = map[string]func(c *Config, v string) error{
	"log_level": func(c *Config, v string) error {
		c.LogLevel = strings.ToLower(v)
		return nil
	},
	"output.base_dir": func(c *Config, v string) error {
		c.Output.BaseDir = v
		return nil
	},
	"output.layout": func(c *Config, v string) error {
		c.SetLayout(v)
		return nil
	},
	"output.readme_title": func(c *Config, v string) error {
		c.Output.ReadmeTitle = v
		return nil
	},
	"fetch.timeout_sec":      intSetter(func(c *Config) *int { return &c.Fetch.TimeoutSec }),
	"fetch.retry_attempts":   intSetter(func(c *Config) *int { return &c.Fetch.RetryAttempts }),
	"fetch.backoff_unit_sec": intSetter(func(c *Config) *int { return &c.Fetch.BackoffUnitSec }),
	"fetch.max_body_size": func(c *Config, v string) error {
		c.Fetch.MaxBodySize = v
		return nil
	},
	"run.strict": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("run.strict: %w", err)
		}
		c.Run.Strict = b
		return nil
	},
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", v)
		}
		*field(c) = n
		return nil
	}
}

// SettableKeys lists the dot-notation keys accepted by Set, sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns value to a dot-notation key such as "fetch.retry_attempts".
// The result is not validated; call Validate before persisting it.
func (c *Config) Set(key, value string) error {
	set, ok := setters[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("%w %q (valid: %s)", ErrUnknownKey, key, strings.Join(SettableKeys(), ", "))
	}
	return set(c, value)
}

// Save writes the config to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
