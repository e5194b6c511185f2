package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment override name.
const EnvPrefix = "PHISHDEDUP_"

// EnvName returns the environment variable overriding keyPath, for example
// PHISHDEDUP_QUERY_LOOKBACK for query.lookback.
func EnvName(keyPath string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(keyPath, ".", "_"))
}

// ApplyEnv returns a copy of cfg with every PHISHDEDUP_* override found via
// lookup applied on top.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) (*Config, error) {
	m, err := configToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}

	changed := false
	for _, key := range KeyPaths() {
		v, ok := lookup(EnvName(key))
		if !ok || v == "" {
			continue
		}
		if err := SetValue(m, key, v); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvName(key), err)
		}
		changed = true
	}
	if !changed {
		out := *cfg
		return &out, nil
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	var out Config
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("environment override: %w", err)
	}
	return &out, nil
}
