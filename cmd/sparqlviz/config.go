package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sparqlviz/sparqlviz/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set configuration values",
	Long: `Show, get or set values in the global config file
(` + "$XDG_CONFIG_HOME/sparqlviz/config.yml" + `).

Usage:
  sparqlviz config                         # Show the effective config
  sparqlviz config get limit               # Get specific value
  sparqlviz config set limit 500           # Set value
  sparqlviz config set prefixes.ex https://example.org/   # Add a prefix
  sparqlviz config set prefixes.ex ""      # Remove it
  sparqlviz config path                    # Print the config file path

Keys:
  limit       Maximum triples mapped per graph
  width       Default surface width
  height      Default surface height
  tick_rate   Live layout steps per second
  max_ticks   Step limit for batch layout
  db_path     Triple store location
  addr        Viewer listen address
  log_level   debug, info, warn or error

Every key can also be set with SPARQLVIZ_<KEY>, e.g. SPARQLVIZ_LIMIT=500.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the global config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the global config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	values := make(map[string]string, len(config.Keys))
	for _, k := range config.Keys {
		v, _ := cfg.Get(k)
		values[k] = v
	}
	if !humanOutput {
		return outputJSON(map[string]any{"config": values, "prefixes": cfg.Prefixes})
	}
	for _, k := range config.Keys {
		fmt.Printf("%s %s\n", styleKey.Sprintf("%-10s", k+":"), values[k])
	}
	for p, ns := range cfg.Prefixes {
		fmt.Printf("%s %s\n", styleKey.Sprintf("%-10s", "prefixes."+p+":"), ns)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := normalizeKey(args[0])
	v, err := cfg.Get(key)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if humanOutput {
		fmt.Println(v)
		return nil
	}
	return outputJSON(map[string]string{key: v})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := normalizeKey(args[0]), args[1]
	path := config.GlobalConfigPath()

	// Only the file's own values are rewritten; defaults and environment
	// overrides stay out of it.
	file, err := config.LoadFile(path)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := file.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	// The effective config must stay valid.
	check := *cfg
	check.Prefixes = nil
	if err := check.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := check.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if err := file.Save(path); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}
	config.ResetGlobalConfigCache()

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := config.GlobalConfigPath()
	if humanOutput {
		fmt.Println(path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "ok", Path: path})
}

// normalizeKey converts key formats (tick-rate, TICK_RATE) to the config's snake_case.
func normalizeKey(key string) string {
	if p, ok := strings.CutPrefix(key, "prefixes."); ok {
		return "prefixes." + p
	}
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "-", "_")
}
