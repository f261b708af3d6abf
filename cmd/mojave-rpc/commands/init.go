package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	cfg "github.com/mojave-chain/mojave-rpc/config"
)

// InitFilesCmd initializes the node home directory with a default config.
var InitFilesCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the home directory with a default config file",
	RunE:  initFiles,
}

func initFiles(cmd *cobra.Command, _ []string) error {
	home, err := ConfigHome(cmd)
	if err != nil {
		return err
	}
	if err := cfg.EnsureRoot(home); err != nil {
		return err
	}
	logger.Info("Initialized config", "path", filepath.Join(home, cfg.DefaultConfigFileName))
	return nil
}
