package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cliplink",
	Short: "URL shortening platform services",
	Long:  "Runs the URL shortening platform services: gateway, shortener, redirector, and analytics. Each subcommand starts one service configured from the environment.",
}

func init() {
	rootCmd.AddCommand(gatewayCmd, shortenerCmd, redirectorCmd, analyticsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
