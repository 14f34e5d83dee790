package s3stage

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eunmann/i32sort/internal/logctx"
)

// TransferConfig configures the S3 transfer managers.
type TransferConfig struct {
	// Concurrency is the number of parts moved in parallel.
	// Default: NumCPU clamped to [4, 16].
	Concurrency int

	// PartSize is the size of each part in bytes. Default: 16MB.
	PartSize int64
}

// DefaultTransferConfig returns defaults based on the current machine.
func DefaultTransferConfig() TransferConfig {
	return TransferConfig{
		Concurrency: min(max(runtime.NumCPU(), 4), 16),
		PartSize:    16 * 1024 * 1024, // 16MB
	}
}

// TransferResult describes a completed download or upload.
type TransferResult struct {
	URI      URI
	Bytes    int64
	Duration time.Duration
}

// Client downloads and uploads whole objects through the transfer managers.
type Client struct {
	downloader *manager.Downloader
	uploader   *manager.Uploader
	cfg        TransferConfig
}

// NewClient creates a client from the default AWS configuration chain.
func NewClient(ctx context.Context, cfg TransferConfig) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewClientWithConfig(awsCfg, cfg), nil
}

// NewClientWithConfig creates a client with a custom AWS config.
func NewClientWithConfig(awsCfg aws.Config, cfg TransferConfig) *Client {
	def := DefaultTransferConfig()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.PartSize <= 0 {
		cfg.PartSize = def.PartSize
	}

	s3Client := s3.NewFromConfig(awsCfg)
	return &Client{
		downloader: manager.NewDownloader(s3Client, func(d *manager.Downloader) {
			d.Concurrency = cfg.Concurrency
			d.PartSize = cfg.PartSize
		}),
		uploader: manager.NewUploader(s3Client, func(u *manager.Uploader) {
			u.Concurrency = cfg.Concurrency
			u.PartSize = cfg.PartSize
		}),
		cfg: cfg,
	}
}

// Download writes the object at uri to destPath, replacing it.
func (c *Client) Download(ctx context.Context, uri URI, destPath string) (*TransferResult, error) {
	start := time.Now()
	log := logctx.FromContext(ctx)

	file, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create destination file: %w", err)
	}
	defer file.Close()

	n, err := c.downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(uri.Bucket),
		Key:    aws.String(uri.Key),
	})
	if err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("download %s: %w", uri, err)
	}

	res := &TransferResult{URI: uri, Bytes: n, Duration: time.Since(start)}
	log.Debug().
		Str("uri", uri.String()).
		Int64("bytes", n).
		Dur("elapsed", res.Duration).
		Int("concurrency", c.cfg.Concurrency).
		Msg("downloaded object")
	return res, nil
}

// Upload stores the file at srcPath as the object at uri.
func (c *Client) Upload(ctx context.Context, srcPath string, uri URI) (*TransferResult, error) {
	start := time.Now()
	log := logctx.FromContext(ctx)

	file, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat source file: %w", err)
	}

	_, err = c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(uri.Bucket),
		Key:    aws.String(uri.Key),
		Body:   file,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", uri, err)
	}

	res := &TransferResult{URI: uri, Bytes: info.Size(), Duration: time.Since(start)}
	log.Debug().
		Str("uri", uri.String()).
		Int64("bytes", res.Bytes).
		Dur("elapsed", res.Duration).
		Int("concurrency", c.cfg.Concurrency).
		Msg("uploaded object")
	return res, nil
}
