package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aevon-lab/sparkify-dwh/internal/core/config"
	"github.com/aevon-lab/sparkify-dwh/internal/pipeline"
	"github.com/aevon-lab/sparkify-dwh/internal/schema"
	"github.com/aevon-lab/sparkify-dwh/internal/staging"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"reset", "load", "stats"})

	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("env-file"))
	require.NotNil(t, loadCmd.Flags().Lookup("preflight"))
}

func TestStagingSources(t *testing.T) {
	cfg := &config.Config{
		S3: config.S3Config{
			LogData:     "s3://udacity-dend/log_data",
			LogJSONPath: "s3://udacity-dend/log_json_path.json",
			SongData:    "s3://udacity-dend/song_data",
			Region:      "us-west-2",
		},
		IAMRole: config.IAMRoleConfig{ARN: "arn:aws:iam::123456789012:role/dwhRole"},
	}

	src := stagingSources(cfg)
	require.Equal(t, staging.Sources{
		LogData:     "s3://udacity-dend/log_data",
		LogJSONPath: "s3://udacity-dend/log_json_path.json",
		SongData:    "s3://udacity-dend/song_data",
		IAMRoleARN:  "arn:aws:iam::123456789012:role/dwhRole",
		Region:      "us-west-2",
	}, src)
	require.NoError(t, src.Validate())
}

func TestRenderCounts(t *testing.T) {
	var buf bytes.Buffer
	renderCounts(&buf, []pipeline.TableCount{
		{Table: "songplays", Rows: 6820},
		{Table: "time", Rows: 6813},
	})

	out := buf.String()
	require.Contains(t, out, "Table")
	require.Contains(t, out, "songplays")
	require.Contains(t, out, "6820")
	require.Contains(t, out, "6813")
}

// Port 1 on loopback refuses connections, so reaching the warehouse would
// surface a connection error instead of the dialect error.
const postgresDialectINI = `
[CLUSTER]
HOST=127.0.0.1
DB_NAME=dwh
DB_USER=dwhuser
DB_PASSWORD=secret
DB_PORT=1

[IAM_ROLE]
ARN=arn:aws:iam::123456789012:role/dwhRole

[S3]
LOG_DATA=s3://udacity-dend/log_data
LOG_JSONPATH=s3://udacity-dend/log_json_path.json
SONG_DATA=s3://udacity-dend/song_data

[WAREHOUSE]
DIALECT=postgres
CONNECT_TIMEOUT=1s
`

func TestLoadCommand_UnsupportedDialectFailsBeforeConnecting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwh.cfg")
	require.NoError(t, os.WriteFile(path, []byte(postgresDialectINI), 0o644))

	rootCmd.SetArgs([]string{"load", "--config", path, "--env-file", ""})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := Execute()
	require.ErrorIs(t, err, schema.ErrUnsupportedDialect)
}
