package s3stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eunmann/i32sort/internal/logctx"
	"github.com/eunmann/i32sort/pkg/fileutil"
)

// Transfer moves whole objects between S3 and local files. *Client
// implements it.
type Transfer interface {
	Download(ctx context.Context, uri URI, destPath string) (*TransferResult, error)
	Upload(ctx context.Context, srcPath string, uri URI) (*TransferResult, error)
}

// Stager maps CLI locations onto local files. Local paths pass through
// unchanged; S3 objects get a file inside the staging directory.
type Stager struct {
	transfer Transfer
	dir      string
}

// NewStager creates a Stager. The staging directory is created under
// parentDir (os.TempDir() when empty) on first use.
func NewStager(transfer Transfer, parentDir string) *Stager {
	if parentDir == "" {
		parentDir = os.TempDir()
	}
	return &Stager{transfer: transfer, dir: filepath.Join(parentDir, fmt.Sprintf("i32sort-stage-%d", os.Getpid()))}
}

// Input returns a local path holding the contents of location.
func (s *Stager) Input(ctx context.Context, location string) (string, error) {
	if !IsURI(location) {
		return location, nil
	}
	uri, err := ParseURI(location)
	if err != nil {
		return "", err
	}

	local, err := s.localPath("input", uri)
	if err != nil {
		return "", err
	}
	ctx = logctx.WithStr(ctx, "uri", uri.String())
	log := logctx.FromContext(ctx)
	log.Info().Str("local", local).Msg("staging input")

	if _, err := s.transfer.Download(ctx, uri, local); err != nil {
		return "", fmt.Errorf("stage input: %w", err)
	}
	return local, nil
}

// Output returns a local path to sort into and a commit function that
// publishes it to location. For local locations the path is location
// itself, created empty if absent, and commit does nothing.
func (s *Stager) Output(ctx context.Context, location string) (string, func(context.Context) error, error) {
	if !IsURI(location) {
		if _, err := fileutil.EnsureFile(location); err != nil {
			return "", nil, err
		}
		return location, func(context.Context) error { return nil }, nil
	}
	uri, err := ParseURI(location)
	if err != nil {
		return "", nil, err
	}

	local, err := s.localPath("output", uri)
	if err != nil {
		return "", nil, err
	}
	if _, err := fileutil.EnsureFile(local); err != nil {
		return "", nil, err
	}

	commit := func(ctx context.Context) error {
		ctx = logctx.WithStr(ctx, "uri", uri.String())
		log := logctx.FromContext(ctx)
		log.Info().Str("local", local).Msg("publishing output")
		if _, err := s.transfer.Upload(ctx, local, uri); err != nil {
			return fmt.Errorf("publish output: %w", err)
		}
		return nil
	}
	return local, commit, nil
}

// Dir returns the staging directory.
func (s *Stager) Dir() string {
	return s.dir
}

// Cleanup removes the staging directory and everything in it.
func (s *Stager) Cleanup() error {
	return os.RemoveAll(s.dir)
}

func (s *Stager) localPath(role string, uri URI) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	return filepath.Join(s.dir, role+"-"+filepath.Base(uri.Key)), nil
}
