// Package cmd is the qent command line.
//
// Settings come from, highest priority first: command-line flags, QENT_* environment
// variables (QENT_LIMITS_MAX_ENTITIES, QENT_LOG_LEVEL, ...), then the config file
// (--config, QENT_CONFIG_FILE, or .qent.yaml in the working directory).
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dzjyyds666/qent/parse"
	"github.com/dzjyyds666/qent/pkg/config"
	"github.com/dzjyyds666/qent/pkg/logging"
)

var cfgFile string

var (
	appCfg *config.Config // 当前生效的配置
	logger *slog.Logger   // 命令使用的日志
)

var rootCmd = &cobra.Command{
	Use:   "qent",
	Short: "Qent parses the entity lump of Quake-family map files.",
	Long: `Qent parses q-entities text (the entity lump of Quake-derived .map and .bsp files)
and reports the first error with its line, column and byte offset.

  qent parse -i e1m1.ent -t yaml          print entities as YAML
  qent parse -i e1m1.ent -f classname -v light
  qent export -i e1m1.ent --db maps.db    store entities in SQLite
  qent serve --addr :8080                 parse over HTTP
  qent watch -i e1m1.ent                  re-parse on every save`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of qent",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "qent v0.1 -- HEAD")
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the grammar profiles accepted by --profile",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range parse.Profiles() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default .qent.yaml, or QENT_CONFIG_FILE)")
	flags.StringP("profile", "p", parse.DefaultProfile, "grammar profile (see 'qent profiles')")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.Int("max-key-length", -1, "longest accepted key in bytes, negative for no limit")
	flags.Int("max-value-length", -1, "longest accepted value in bytes, negative for no limit")
	flags.Int("max-entities", -1, "most entities accepted, negative for no limit")
	flags.Int("max-entity-key-values", -1, "most key-values per entity, negative for no limit")

	bindFlag("profile", flags.Lookup("profile"))
	bindFlag("log.level", flags.Lookup("log-level"))
	bindFlag("log.format", flags.Lookup("log-format"))
	bindFlag("limits.max_key_length", flags.Lookup("max-key-length"))
	bindFlag("limits.max_value_length", flags.Lookup("max-value-length"))
	bindFlag("limits.max_entities", flags.Lookup("max-entities"))
	bindFlag("limits.max_entity_key_values", flags.Lookup("max-entity-key-values"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".qent")
	}
	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup loads the configuration and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	l, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	appCfg, logger = cfg, l
	return nil
}

func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}
