package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "metrofocus",
	Short: "Gamified focus timer set in an animal metropolis",
	Long: "MetroFocus: run focus sessions in the districts of the city, earn bucks and " +
		"rank, and furnish your apartment.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHome(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides METROFOCUS_DB)")
	rootCmd.PersistentFlags().String("backend", "", "Persistence backend: sqlite or redis (overrides METROFOCUS_BACKEND)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides METROFOCUS_LOG_LEVEL)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
