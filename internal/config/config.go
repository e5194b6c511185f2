// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

// Package config handles .phishdedup.yaml and .phishdedup.toml configuration
// files, PHISHDEDUP_* environment overrides, and their resolution into
// dedup settings.
package config

// Config represents the contents of a phishdedup config file. Unset values
// fall through to the next source and finally to the built-in defaults.
type Config struct {
	Fields        Fields   `yaml:"fields,omitempty" toml:"fields,omitempty"`
	FromPolicy    string   `yaml:"from_policy,omitempty" toml:"from_policy,omitempty" validate:"omitempty,sender_policy"`
	Threshold     *float64 `yaml:"threshold,omitempty" toml:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinTextLength *int     `yaml:"min_text_length,omitempty" toml:"min_text_length,omitempty" validate:"omitempty,gte=0"`
	OutputFormat  string   `yaml:"output_format,omitempty" toml:"output_format,omitempty" validate:"omitempty,output_format"`
	Query         Query    `yaml:"query,omitempty" toml:"query,omitempty"`
}

// Fields overrides the record keys holding the email parts.
type Fields struct {
	Subject  string `yaml:"subject,omitempty" toml:"subject,omitempty" validate:"omitempty,field_name"`
	Body     string `yaml:"body,omitempty" toml:"body,omitempty" validate:"omitempty,field_name"`
	HTMLBody string `yaml:"html_body,omitempty" toml:"html_body,omitempty" validate:"omitempty,field_name"`
	From     string `yaml:"from,omitempty" toml:"from,omitempty" validate:"omitempty,field_name"`
}

// Query holds the historical incident query settings.
type Query struct {
	Limit         *int   `yaml:"limit,omitempty" toml:"limit,omitempty" validate:"omitempty,gte=0"`
	IncidentTypes string `yaml:"incident_types,omitempty" toml:"incident_types,omitempty"`
	TypeField     string `yaml:"type_field,omitempty" toml:"type_field,omitempty" validate:"omitempty,field_name"`
	StatusScope   string `yaml:"status_scope,omitempty" toml:"status_scope,omitempty" validate:"omitempty,status_scope"`
	Lookback      string `yaml:"lookback,omitempty" toml:"lookback,omitempty" validate:"omitempty,lookback"`
	Fragment      string `yaml:"fragment,omitempty" toml:"fragment,omitempty"`
}

// FileName is the YAML config file name looked up in the working directory.
const FileName = ".phishdedup.yaml"

// TOMLFileName is the TOML alternative, used when no YAML file exists.
const TOMLFileName = ".phishdedup.toml"
