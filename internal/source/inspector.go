// Package source checks the S3 locations referenced by the staging COPY
// statements before the warehouse is asked to load them.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrEmptyPrefix is returned when a location holds no objects.
var ErrEmptyPrefix = errors.New("no objects under s3 prefix")

// ObjectAPI is the subset of the S3 client used by Inspector.
type ObjectAPI interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Locations are the three inputs of a load.
type Locations struct {
	LogData     string
	LogJSONPath string
	SongData    string
}

// Inspector verifies that load inputs exist.
type Inspector struct {
	client ObjectAPI
}

// NewInspector creates an Inspector over the given client.
func NewInspector(client ObjectAPI) *Inspector {
	return &Inspector{client: client}
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// CheckPrefix returns ErrEmptyPrefix unless at least one object exists under uri.
func (i *Inspector) CheckPrefix(ctx context.Context, raw string) error {
	uri, err := ParseURI(raw)
	if err != nil {
		return err
	}

	out, err := i.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(uri.Bucket),
		Prefix:  aws.String(uri.Key),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", uri, err)
	}
	if len(out.Contents) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyPrefix, uri)
	}
	return nil
}

// CheckObject returns an error unless the exact object exists.
func (i *Inspector) CheckObject(ctx context.Context, raw string) error {
	uri, err := ParseURI(raw)
	if err != nil {
		return err
	}

	if _, err := i.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(uri.Bucket),
		Key:    aws.String(uri.Key),
	}); err != nil {
		return fmt.Errorf("failed to find %s: %w", uri, err)
	}
	return nil
}

// Check verifies the log and song prefixes are non-empty and the JSONPaths
// file exists. A JSONPath of "auto" is not an object and is skipped.
func (i *Inspector) Check(ctx context.Context, loc Locations) error {
	if err := i.CheckPrefix(ctx, loc.LogData); err != nil {
		return err
	}
	if loc.LogJSONPath != "auto" {
		if err := i.CheckObject(ctx, loc.LogJSONPath); err != nil {
			return err
		}
	}
	if err := i.CheckPrefix(ctx, loc.SongData); err != nil {
		return err
	}

	slog.Info("[Source] Preflight passed",
		"log_data", loc.LogData,
		"log_jsonpath", loc.LogJSONPath,
		"song_data", loc.SongData)
	return nil
}
