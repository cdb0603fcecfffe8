// Package staging builds the Redshift COPY statements that bulk-load raw
// event logs and song metadata from S3 into the staging tables.
package staging

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aevon-lab/sparkify-dwh/internal/core/storage"
	"github.com/aevon-lab/sparkify-dwh/internal/schema"
	"github.com/lib/pq"
)

const (
	StatementCopyEvents = "copy_staging_events"
	StatementCopySongs  = "copy_staging_songs"

	// JSONAuto lets COPY map JSON keys to column names.
	JSONAuto = "auto"
)

var (
	// ErrInvalidSource is returned when a location, role or region fails validation.
	ErrInvalidSource = errors.New("invalid staging source")

	s3URIPattern   = regexp.MustCompile(`^s3://[a-z0-9][a-z0-9.\-]{1,61}[a-z0-9](/[^\s'"\\]*)?$`)
	roleARNPattern = regexp.MustCompile(`^arn:aws[a-z\-]*:iam::[0-9]{12}:role/[A-Za-z0-9+=,.@_/\-]+$`)
	regionPattern  = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-[0-9]+$`)
)

// Sources are the storage locations and credentials referenced by COPY.
type Sources struct {
	LogData     string
	LogJSONPath string
	SongData    string
	IAMRoleARN  string
	Region      string
}

// Validate checks every field. COPY takes no bind parameters, so these values
// end up as literals in the statement text.
func (s Sources) Validate() error {
	for _, loc := range []struct{ key, value string }{
		{"log_data", s.LogData},
		{"song_data", s.SongData},
	} {
		if !s3URIPattern.MatchString(loc.value) {
			return fmt.Errorf("%w: %s %q is not an s3:// location", ErrInvalidSource, loc.key, loc.value)
		}
	}
	if s.LogJSONPath != JSONAuto && !s3URIPattern.MatchString(s.LogJSONPath) {
		return fmt.Errorf("%w: log_jsonpath %q is neither %q nor an s3:// location", ErrInvalidSource, s.LogJSONPath, JSONAuto)
	}
	if !roleARNPattern.MatchString(s.IAMRoleARN) {
		return fmt.Errorf("%w: iam role %q is not a role ARN", ErrInvalidSource, s.IAMRoleARN)
	}
	if !regionPattern.MatchString(s.Region) {
		return fmt.Errorf("%w: region %q", ErrInvalidSource, s.Region)
	}
	return nil
}

// EventsCopy loads newline-delimited JSON activity logs using a JSONPaths
// mapping. ts is read as epoch milliseconds; blank and empty fields become NULL.
func EventsCopy(s Sources) (storage.Statement, error) {
	if err := s.Validate(); err != nil {
		return storage.Statement{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "COPY %s FROM %s\n", schema.TableStagingEvents, pq.QuoteLiteral(s.LogData))
	fmt.Fprintf(&b, "IAM_ROLE %s\n", pq.QuoteLiteral(s.IAMRoleARN))
	fmt.Fprintf(&b, "COMPUPDATE OFF REGION %s\n", pq.QuoteLiteral(s.Region))
	b.WriteString("TIMEFORMAT AS 'epochmillisecs'\n")
	b.WriteString("TRUNCATECOLUMNS BLANKSASNULL EMPTYASNULL\n")
	fmt.Fprintf(&b, "FORMAT AS JSON %s", pq.QuoteLiteral(s.LogJSONPath))

	return storage.Statement{Name: StatementCopyEvents, Query: b.String()}, nil
}

// SongsCopy loads one JSON object per file with automatic field mapping.
func SongsCopy(s Sources) (storage.Statement, error) {
	if err := s.Validate(); err != nil {
		return storage.Statement{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "COPY %s FROM %s\n", schema.TableStagingSongs, pq.QuoteLiteral(s.SongData))
	fmt.Fprintf(&b, "IAM_ROLE %s\n", pq.QuoteLiteral(s.IAMRoleARN))
	fmt.Fprintf(&b, "COMPUPDATE OFF REGION %s\n", pq.QuoteLiteral(s.Region))
	fmt.Fprintf(&b, "FORMAT AS JSON %s\n", pq.QuoteLiteral(JSONAuto))
	b.WriteString("TRUNCATECOLUMNS BLANKSASNULL EMPTYASNULL")

	return storage.Statement{Name: StatementCopySongs, Query: b.String()}, nil
}

// Statements returns the events COPY followed by the songs COPY.
// Only Redshift can COPY from S3.
func Statements(d schema.Dialect, s Sources) ([]storage.Statement, error) {
	if d != schema.DialectRedshift {
		return nil, fmt.Errorf("%w: COPY from S3 requires %s, got %s", schema.ErrUnsupportedDialect, schema.DialectRedshift, d)
	}

	events, err := EventsCopy(s)
	if err != nil {
		return nil, err
	}
	songs, err := SongsCopy(s)
	if err != nil {
		return nil, err
	}
	return []storage.Statement{events, songs}, nil
}
