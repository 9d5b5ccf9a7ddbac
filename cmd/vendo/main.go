package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vendo-inc/vendo/internal/interfaces/cli/migrate"
	"github.com/vendo-inc/vendo/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vendo",
		Short: "Vendo - subscription and checkout service",
		Long:  `Vendo manages subscription lifecycles, hosted checkout sessions, and billing invoice notifications.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
