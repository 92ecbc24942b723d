package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	RegisterCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the conductor version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "conductor version %s (built %s)\n", Version, BuildTime)
		},
	})
}
