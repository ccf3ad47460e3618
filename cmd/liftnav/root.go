package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/liftnav/internal/cli"
	"github.com/aretw0/liftnav/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "liftnav",
	Short: "liftnav is the page navigation coordinator of a workout logger",
	Long: `liftnav keeps the ordered stack of open pages (dashboard, lift details, set editors...)
and lets a terminal shell, an HTTP client or an MCP agent drive and observe it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the liftnav config file (YAML or JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("surface", "", "Surface name (overrides config)")
}

// loadHost reads the config named by the persistent flags and builds the host.
func loadHost(cmd *cobra.Command) (*config.Config, *cli.Host, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	surface, _ := cmd.Flags().GetString("surface")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if surface != "" {
		cfg.Surface = surface
	}

	logger, err := cli.CreateLogger(debug, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	host, err := cli.NewHost(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, host, nil
}
