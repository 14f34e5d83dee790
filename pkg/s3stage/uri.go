// Package s3stage moves sort inputs and outputs between S3 and local disk.
//
// The sorter only works on local files. When the CLI is given s3://
// locations, the input object is downloaded into a staging directory
// before the sort and the sorted file is uploaded afterwards.
package s3stage

import (
	"errors"
	"strings"
)

const scheme = "s3://"

// URI identifies one S3 object.
type URI struct {
	Bucket string
	Key    string
}

// IsURI reports whether location names an S3 object rather than a local path.
func IsURI(location string) bool {
	return strings.HasPrefix(location, scheme)
}

// ParseURI parses an S3 URI (s3://bucket/key). Both bucket and key are required.
func ParseURI(uri string) (URI, error) {
	if !IsURI(uri) {
		return URI{}, errors.New("invalid S3 URI: must start with s3://")
	}

	path := strings.TrimPrefix(uri, scheme)
	bucket, key, _ := strings.Cut(path, "/")
	if bucket == "" {
		return URI{}, errors.New("invalid S3 URI: missing bucket name")
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return URI{}, errors.New("invalid S3 URI: missing object key")
	}

	return URI{Bucket: bucket, Key: key}, nil
}

// String returns the s3:// form of u.
func (u URI) String() string {
	return scheme + u.Bucket + "/" + u.Key
}
