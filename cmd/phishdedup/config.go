package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/phishdedup/internal/config"
)

// Config command flags.
var configGlobal bool

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify phishdedup configuration",
	Long: `View and modify phishdedup configuration.

Phishdedup reads configuration from .phishdedup.yaml (or .phishdedup.toml)
in the current directory. A global config at ~/.config/phishdedup/config.yaml
provides defaults. Project settings override global settings, and
PHISHDEDUP_* environment variables override both, for example
PHISHDEDUP_QUERY_LOOKBACK for query.lookback.

Note: config set does a round-trip of the file and will not preserve
comments. If you need to keep comments, edit the file directly.`,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  "Print the effective configuration as YAML, with every unset value filled in from the defaults.",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configValidateCmd validates the layered configuration.
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long:  "Validate the global, project and environment configuration and report every problem at once.",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

// configGetCmd retrieves a configuration value by dot-notation key path.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by dot-notation key path.

Examples:
  phishdedup config get threshold
  phishdedup config get query.lookback
  phishdedup config get query
  phishdedup config get --global from_policy`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Values are auto-detected as bool, int, float, or string.
By default, writes to .phishdedup.yaml in the current directory, or to
.phishdedup.toml when only that file exists.
Use --global to write to ~/.config/phishdedup/config.yaml.

Examples:
  phishdedup config set threshold 0.95
  phishdedup config set from_policy Domain
  phishdedup config set query.lookback "30 days ago"
  phishdedup config set --global output_format json`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// configListCmd lists all configuration values with their source.
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Long: `List all configuration values with their source annotation.

Shows every set configuration value, annotated with whether it comes from
the project config, the global config or the environment. Environment
values override project values, which override global values.`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

func init() {
	configGetCmd.Flags().BoolVar(&configGlobal, "global", false, "use global config (~/.config/phishdedup/config.yaml)")
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "write to global config (~/.config/phishdedup/config.yaml)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}

// resetConfigFlags resets config command flags for testing.
func resetConfigFlags() {
	configGlobal = false
	if f := configGetCmd.Flags().Lookup("global"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	if f := configSetCmd.Flags().Lookup("global"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadLayered(".", os.LookupEnv)
	if err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}
	return config.Write(cmd.OutOrStdout(), config.Effective(cfg))
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadLayered(".", os.LookupEnv)
	if err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}
	if _, err := config.Resolve(cfg); err != nil {
		return exitError(ExitInvalidArgs, "phishdedup: %v", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("configuration is valid"))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]

	var cfg *config.Config
	var err error
	if configGlobal {
		cfg, err = config.LoadGlobal()
	} else {
		cfg, err = config.LoadLayered(".", os.LookupEnv)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	val, err := config.GetValue(cfg, keyPath)
	if err != nil {
		return err
	}
	return printValue(cmd, val)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]
	rawValue := args[1]

	if err := config.ValidateKeyPath(keyPath); err != nil {
		return err
	}

	targetPath := projectConfigPath()
	if configGlobal {
		targetPath = config.GlobalConfigPath()
	}

	data, err := config.LoadRaw(targetPath)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	if err := config.SetValue(data, keyPath, rawValue); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}

	// Round-trip validate: unmarshal to Config and validate.
	roundTrip, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	var validCfg config.Config
	if err := yaml.Unmarshal(roundTrip, &validCfg); err != nil {
		return fmt.Errorf("invalid config after set: %w", err)
	}
	if err := config.Validate(&validCfg); err != nil {
		return err
	}

	if err := config.WriteFile(targetPath, data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", keyPath, rawValue)
	return nil
}

// projectConfigPath returns the TOML file when it is the only project
// config, and the YAML file otherwise.
func projectConfigPath() string {
	yamlPath := filepath.Join(".", config.FileName)
	tomlPath := filepath.Join(".", config.TOMLFileName)
	if _, err := cmdFS.Stat(yamlPath); errors.Is(err, fs.ErrNotExist) {
		if _, err := cmdFS.Stat(tomlPath); err == nil {
			return tomlPath
		}
	}
	return yamlPath
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	globalCfg, err := config.LoadGlobal()
	if err != nil {
		return fmt.Errorf("loading global config: %w", err)
	}
	repoCfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}

	globalMap, err := configToFlatMap(globalCfg)
	if err != nil {
		return err
	}
	repoMap, err := configToFlatMap(repoCfg)
	if err != nil {
		return err
	}

	// Merge: env overrides project overrides global, track source.
	type entry struct {
		value  any
		source string
	}

	seen := make(map[string]entry)
	for k, v := range globalMap {
		seen[k] = entry{value: v, source: "global"}
	}
	for k, v := range repoMap {
		seen[k] = entry{value: v, source: "project"}
	}
	for _, k := range config.KeyPaths() {
		if v, ok := os.LookupEnv(config.EnvName(k)); ok && v != "" {
			seen[k] = entry{value: v, source: "env"}
		}
	}

	if len(seen) == 0 {
		_, _ = fmt.Fprintln(w, "No configuration set.")
		_, _ = fmt.Fprintln(w, "Run 'phishdedup config set <key> <value>' to set values, or 'phishdedup config show' for the defaults.")
		return nil
	}

	// Sort keys for stable output.
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		e := seen[k]
		_, _ = fmt.Fprintf(w, "%s = %v %s\n", k, e.value, formatSource(e.source))
	}
	return nil
}

// printValue outputs a value: scalars as plain text, maps/slices as YAML.
func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

// configToFlatMap converts a Config to a flat dot-notation map, omitting zero values.
func configToFlatMap(cfg *config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return config.FlattenMap(m, ""), nil
}

var sourceColors = map[string]*color.Color{
	"global":  color.New(color.FgCyan),
	"project": color.New(color.FgGreen),
	"env":     color.New(color.FgMagenta),
}

// formatSource returns a colorized source annotation.
func formatSource(source string) string {
	if c, ok := sourceColors[source]; ok {
		return c.Sprintf("(%s)", source)
	}
	return fmt.Sprintf("(%s)", source)
}
