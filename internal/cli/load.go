package cli

import (
	"github.com/aevon-lab/sparkify-dwh/internal/core/config"
	"github.com/aevon-lab/sparkify-dwh/internal/source"
	"github.com/aevon-lab/sparkify-dwh/internal/staging"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Copy raw data from S3 into staging, then populate the star schema",
	Long: `Bulk-copies the event logs and song metadata into the staging tables and
runs the six transform statements: songplays, users (delete then insert), songs,
artists and time. The tables must exist (run "dwh reset" first).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		// Dialect and source checks fail before any connection is opened.
		copies, err := staging.Statements(cfg.Dialect(), stagingSources(cfg))
		if err != nil {
			return err
		}

		preflight, _ := cmd.Flags().GetBool("preflight")
		if preflight || cfg.S3.Preflight {
			client, err := source.NewS3Client(ctx, cfg.S3.Region)
			if err != nil {
				return err
			}
			if err := source.NewInspector(client).Check(ctx, source.Locations{
				LogData:     cfg.S3.LogData,
				LogJSONPath: cfg.S3.LogJSONPath,
				SongData:    cfg.S3.SongData,
			}); err != nil {
				return err
			}
		}

		s, err := connect(cfg)
		if err != nil {
			return err
		}
		defer s.close()

		return s.runner.Load(ctx, copies)
	},
}

func init() {
	loadCmd.Flags().Bool("preflight", false, "Check that the S3 sources exist before loading")
}

func stagingSources(cfg *config.Config) staging.Sources {
	return staging.Sources{
		LogData:     cfg.S3.LogData,
		LogJSONPath: cfg.S3.LogJSONPath,
		SongData:    cfg.S3.SongData,
		IAMRoleARN:  cfg.IAMRole.ARN,
		Region:      cfg.S3.Region,
	}
}
