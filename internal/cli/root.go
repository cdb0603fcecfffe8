package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dwh",
	Short: "Sparkify warehouse ELT",
	Long: `dwh loads raw event logs and song metadata from S3 into Redshift staging
tables, then builds the songplays star schema from them.

Commands run their statements one at a time and commit after each. The first
failure stops the run and is reported as returned by the warehouse.

  dwh reset   drop and recreate all seven tables
  dwh load    copy staging data from S3, then populate fact and dimensions
  dwh stats   print the row count of every table`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "dwh.cfg", "Path to the configuration file (INI, or YAML for .yaml/.yml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file loaded before the configuration")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(resetCmd, loadCmd, statsCmd)
}
