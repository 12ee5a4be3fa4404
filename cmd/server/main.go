// Package main is the entry point for the gRPC server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kurgan-api",
	Short: "Cursed Mounds game backend",
	Long:  `kurgan-api is the backend for the Cursed Mounds mini-game: daily character generation, runs through the kurgans, and the shared world boss.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
