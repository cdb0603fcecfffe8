package cli

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate all warehouse tables",
	Long: `Drops the staging, fact and dimension tables if they exist, then creates
them again. Every table ends up empty. Each statement commits on its own, so a
failure part way leaves the schema partially reset; running reset again is safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		return s.runner.ResetSchema(cmd.Context(), s.cfg.Dialect())
	},
}
