// Package storage fetches remote objects from the bot's S3 bucket. The
// transport is treated as opaque: callers hand over a key and get bytes
// back, with any retry policy left to the SDK.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/local/hivebot/internal/secrets"
)

// downloader is the slice of manager.Downloader that Fetch needs.
type downloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error)
}

// Client downloads objects from a single configured bucket.
type Client struct {
	bucket     string
	downloader downloader

	// tmpDir overrides the scratch directory for downloads; empty means
	// the OS default.
	tmpDir string
}

// New builds a storage client from the loaded secret set.
func New(s secrets.Set) *Client {
	cfg := aws.Config{
		Region:      s["S3_REGION"],
		Credentials: credentials.NewStaticCredentialsProvider(s["AWS_KEY"], s["AWS_SECRET"], ""),
	}
	api := s3.NewFromConfig(cfg)
	return &Client{
		bucket:     s["S3_BUCKET"],
		downloader: manager.NewDownloader(api),
	}
}

// Fetch downloads the object at key through a scratch file and returns its
// contents. The scratch file keeps the key's extension and is removed on
// every exit path.
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	tmp, err := os.CreateTemp(c.tmpDir, "hivebot-*"+filepath.Ext(key))
	if err != nil {
		return nil, fmt.Errorf("fetch remote config %s: %w", key, err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	_, err = c.downloader.Download(ctx, tmp, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch remote config %s: %w", key, err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("fetch remote config %s: %w", key, err)
	}
	data, err := io.ReadAll(tmp)
	if err != nil {
		return nil, fmt.Errorf("fetch remote config %s: %w", key, err)
	}
	return data, nil
}
