package commands

import (
	"github.com/spf13/cobra"

	"github.com/mojave-chain/mojave-rpc/version"
)

// VersionCmd prints the version of the binary.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(version.ClientVersion())
	},
}
