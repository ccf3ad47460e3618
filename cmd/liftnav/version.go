package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/liftnav"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of liftnav",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "liftnav version %s\n", strings.TrimSpace(liftnav.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
