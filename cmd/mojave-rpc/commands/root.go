package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfg "github.com/mojave-chain/mojave-rpc/config"
	"github.com/mojave-chain/mojave-rpc/libs/log"
)

// HomeFlag is the flag holding the root directory of the node.
const HomeFlag = "home"

var (
	config = cfg.DefaultConfig()
	logger = log.NewLogger(os.Stdout)
)

func init() {
	RootCmd.PersistentFlags().String(HomeFlag, defaultHome(), "directory for config files")
	RootCmd.PersistentFlags().String("log_format", config.LogFormat, "log format (plain|json)")
	RootCmd.PersistentFlags().Bool("log_debug", config.LogDebug, "emit debug level log lines")
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mojave-rpc"
	}
	return filepath.Join(home, ".mojave-rpc")
}

// ConfigHome returns the node root directory, preferring the MOJAVE_HOME
// environment variable over the --home flag.
func ConfigHome(cmd *cobra.Command) (string, error) {
	if v := os.Getenv("MOJAVE_HOME"); v != "" {
		return v, nil
	}
	return cmd.Flags().GetString(HomeFlag)
}

// ParseConfig loads the config file from the node root (creating both with
// defaults when missing), applies flag and environment overrides and
// validates the result.
func ParseConfig(cmd *cobra.Command) (*cfg.Config, error) {
	home, err := ConfigHome(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureRoot(home); err != nil {
		return nil, err
	}

	conf, err := cfg.LoadConfigFile(filepath.Join(home, cfg.DefaultConfigFileName))
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log_format") {
		conf.LogFormat, _ = cmd.Flags().GetString("log_format")
	}
	if cmd.Flags().Changed("log_debug") {
		conf.LogDebug, _ = cmd.Flags().GetBool("log_debug")
	}
	if v := viper.GetString("rpc.upstream"); v != "" {
		conf.RPC.Upstream = v
	}

	if err := conf.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("error in config file: %w", err)
	}
	return conf, nil
}

// RootCmd is the root command for mojave-rpc.
var RootCmd = &cobra.Command{
	Use:   "mojave-rpc",
	Short: "JSON-RPC dispatch server for the Mojave chain",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
		if cmd.Name() == VersionCmd.Name() {
			return nil
		}

		viper.SetEnvPrefix("MOJAVE")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		config, err = ParseConfig(cmd)
		if err != nil {
			return err
		}

		if config.LogFormat == cfg.LogFormatJSON {
			logger = log.NewJSONLogger(os.Stdout)
		}
		log.LogDebug = config.LogDebug

		return nil
	},
}
