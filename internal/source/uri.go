package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidURI is returned for locations that are not s3://bucket[/key].
var ErrInvalidURI = errors.New("invalid s3 uri")

// URI is a parsed s3://bucket/key location. Key may be a prefix.
type URI struct {
	Bucket string
	Key    string
}

// ParseURI splits an s3:// location into bucket and key.
func ParseURI(raw string) (URI, error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return URI{}, fmt.Errorf("%w: %q", ErrInvalidURI, raw)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return URI{}, fmt.Errorf("%w: %q has no bucket", ErrInvalidURI, raw)
	}
	return URI{Bucket: bucket, Key: key}, nil
}

func (u URI) String() string {
	if u.Key == "" {
		return "s3://" + u.Bucket
	}
	return "s3://" + u.Bucket + "/" + u.Key
}
