package staging

import (
	"testing"

	"github.com/aevon-lab/sparkify-dwh/internal/schema"
	"github.com/stretchr/testify/require"
)

func validSources() Sources {
	return Sources{
		LogData:     "s3://udacity-dend/log_data",
		LogJSONPath: "s3://udacity-dend/log_json_path.json",
		SongData:    "s3://udacity-dend/song_data",
		IAMRoleARN:  "arn:aws:iam::123456789012:role/dwhRole",
		Region:      "us-west-2",
	}
}

func TestEventsCopy(t *testing.T) {
	stmt, err := EventsCopy(validSources())
	require.NoError(t, err)
	require.Equal(t, StatementCopyEvents, stmt.Name)
	require.Empty(t, stmt.Args)
	require.Equal(t, "COPY staging_events FROM 's3://udacity-dend/log_data'\n"+
		"IAM_ROLE 'arn:aws:iam::123456789012:role/dwhRole'\n"+
		"COMPUPDATE OFF REGION 'us-west-2'\n"+
		"TIMEFORMAT AS 'epochmillisecs'\n"+
		"TRUNCATECOLUMNS BLANKSASNULL EMPTYASNULL\n"+
		"FORMAT AS JSON 's3://udacity-dend/log_json_path.json'", stmt.Query)
}

func TestSongsCopy(t *testing.T) {
	stmt, err := SongsCopy(validSources())
	require.NoError(t, err)
	require.Equal(t, StatementCopySongs, stmt.Name)
	require.Equal(t, "COPY staging_songs FROM 's3://udacity-dend/song_data'\n"+
		"IAM_ROLE 'arn:aws:iam::123456789012:role/dwhRole'\n"+
		"COMPUPDATE OFF REGION 'us-west-2'\n"+
		"FORMAT AS JSON 'auto'\n"+
		"TRUNCATECOLUMNS BLANKSASNULL EMPTYASNULL", stmt.Query)
}

func TestSources_ValidateRejectsInjection(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Sources)
	}{
		{"quote in log location", func(s *Sources) { s.LogData = "s3://bucket/x' CREDENTIALS 'aws_access_key_id=abc" }},
		{"non s3 scheme", func(s *Sources) { s.SongData = "https://bucket/song_data" }},
		{"backslash in key", func(s *Sources) { s.SongData = `s3://bucket/a\b` }},
		{"whitespace in key", func(s *Sources) { s.LogData = "s3://bucket/log data" }},
		{"bad jsonpath", func(s *Sources) { s.LogJSONPath = "jsonpaths.json" }},
		{"user arn instead of role", func(s *Sources) { s.IAMRoleARN = "arn:aws:iam::123456789012:user/admin" }},
		{"arn with quote", func(s *Sources) { s.IAMRoleARN = "arn:aws:iam::123456789012:role/x'" }},
		{"region with quote", func(s *Sources) { s.Region = "us-west-2'" }},
		{"empty region", func(s *Sources) { s.Region = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := validSources()
			tc.mutate(&src)
			_, err := EventsCopy(src)
			require.ErrorIs(t, err, ErrInvalidSource)
		})
	}
}

func TestSources_ValidateAcceptsAutoJSONPath(t *testing.T) {
	src := validSources()
	src.LogJSONPath = JSONAuto
	require.NoError(t, src.Validate())

	src.Region = "ap-southeast-1"
	src.IAMRoleARN = "arn:aws-us-gov:iam::123456789012:role/service-role/dwh.loader"
	require.NoError(t, src.Validate())
}

func TestStatements(t *testing.T) {
	stmts, err := Statements(schema.DialectRedshift, validSources())
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	require.Equal(t, StatementCopyEvents, stmts[0].Name)
	require.Equal(t, StatementCopySongs, stmts[1].Name)
	for _, stmt := range stmts {
		require.Empty(t, stmt.Args, stmt.Name)
	}

	_, err = Statements(schema.DialectPostgres, validSources())
	require.ErrorIs(t, err, schema.ErrUnsupportedDialect)
}
