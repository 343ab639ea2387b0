package main

import (
	"github.com/spf13/cobra"
)

var (
	configDir string
	debugLog  bool
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portal",
		Short: "Captive-portal backend for UniFi guest WiFi",
		Long: "Captive-portal backend: records WiFi registrations and authorizes " +
			"devices on a UniFi wireless controller.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configDir, "config", "./config", "directory containing config.yaml")
	cmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(hashPasswordCmd())

	return cmd
}
