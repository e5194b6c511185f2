// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package config

import "fmt"

// LoadLayered reads the global config, then the project config in dir, then
// PHISHDEDUP_* overrides from lookup, each layer winning over the one
// before. A nil lookup skips the environment layer.
func LoadLayered(dir string, lookup func(string) (string, bool)) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, fmt.Errorf("load global config: %w", err)
	}
	project, err := Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := Merge(global, project)
	if lookup == nil {
		return cfg, nil
	}
	cfg, err = ApplyEnv(cfg, lookup)
	if err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	return cfg, nil
}
