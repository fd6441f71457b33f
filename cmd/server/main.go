package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onboard/internal/platform/config"
)

// main wires high-level dependencies behind cobra commands. Business logic
// lives in internal services packages.
func main() {
	v := config.New()
	root := rootCmd(v)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "onboard",
		Short:         "Onboard public administrations from the IPA registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("database-url", "", "Postgres URL; empty uses in-memory stores")
	_ = v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("database-url", root.PersistentFlags().Lookup("database-url"))

	root.AddCommand(serveCmd(v))
	root.AddCommand(migrateCmd(v))
	root.AddCommand(tokenCmd(v))
	return root
}
