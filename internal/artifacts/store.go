// Package artifacts fetches model artifacts from S3 into local ephemeral
// storage. The three objects (weights, metadata, labels) are immutable, so a
// file already present in the cache directory is never re-downloaded within
// the same execution environment.
package artifacts

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/perivale/classify-api/internal/config"
)

// Downloader is the slice of manager.Downloader the store needs. Tests
// substitute an in-memory implementation.
type Downloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error)
}

// Paths locates the three artifacts on local disk after a successful Fetch.
type Paths struct {
	Weights  string
	Metadata string
	Labels   string
}

type Store struct {
	dl  Downloader
	art config.Artifacts
	dir string
}

// NewStore builds a store over an existing downloader. dir is the local
// cache directory; it is created if absent.
func NewStore(dl Downloader, art config.Artifacts, dir string) *Store {
	return &Store{dl: dl, art: art, dir: dir}
}

// NewS3Store builds a store backed by the default AWS credential chain.
func NewS3Store(ctx context.Context, art config.Artifacts, dir string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return NewStore(manager.NewDownloader(client), art, dir), nil
}

// Fetch ensures all three artifacts exist locally and returns their paths.
// Any download failure is returned as-is for the caller to treat as fatal;
// there is no retry here.
func (s *Store) Fetch(ctx context.Context) (Paths, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("creating cache dir %s: %w", s.dir, err)
	}

	p := Paths{}
	for _, obj := range []struct {
		name string
		dst  *string
	}{
		{s.art.Weights, &p.Weights},
		{s.art.Metadata, &p.Metadata},
		{s.art.Labels, &p.Labels},
	} {
		local, err := s.fetchOne(ctx, obj.name)
		if err != nil {
			return Paths{}, err
		}
		*obj.dst = local
	}
	return p, nil
}

func (s *Store) fetchOne(ctx context.Context, name string) (string, error) {
	local := filepath.Join(s.dir, name)

	if info, err := os.Stat(local); err == nil && info.Size() > 0 {
		log.Printf("Artifact %s already cached (%d bytes)", name, info.Size())
		return local, nil
	}

	key := path.Join(s.art.Prefix, name)
	log.Printf("Downloading s3://%s/%s", s.art.Bucket, key)

	f, err := os.Create(local)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", local, err)
	}
	defer f.Close()

	n, err := s.dl.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(s.art.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		os.Remove(local)
		return "", fmt.Errorf("downloading s3://%s/%s: %w", s.art.Bucket, key, err)
	}

	log.Printf("Downloaded %s (%d bytes)", name, n)
	return local, nil
}
