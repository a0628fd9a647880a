package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"lumenstudio/api/internal/config"
)

// ObjectStore wraps the S3-compatible bucket holding uploaded blog assets
// (featured images).
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.BucketAssets)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.BucketAssets, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.BucketAssets, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.BucketAssets, err)
		}
	}
	return nil
}

// Put stores an object and returns its public URL.
func (s *ObjectStore) Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.cfg.BucketAssets, objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.PublicURL(objectKey), nil
}

func (s *ObjectStore) PublicURL(objectKey string) string {
	base := strings.TrimSuffix(s.cfg.Endpoint, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.BucketAssets, objectKey)
}

// KeyFromRef maps a stored reference (the public URL recorded on a post)
// back to an object key. Returns "" for references outside this store, so
// externally hosted images never get deleted.
func (s *ObjectStore) KeyFromRef(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	prefix := "/" + s.cfg.BucketAssets + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return ""
	}
	return strings.TrimPrefix(u.Path, prefix)
}

// RemoveByRef deletes the asset a reference points at. Foreign references
// are a no-op.
func (s *ObjectStore) RemoveByRef(ctx context.Context, ref string) error {
	key := s.KeyFromRef(ref)
	if key == "" {
		return nil
	}
	return s.Remove(ctx, key)
}

func (s *ObjectStore) Remove(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.BucketAssets, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", objectKey, err)
	}
	return nil
}

// ListObjects streams every object key in the asset bucket together with its
// last-modified time. Used by the orphaned-asset sweep.
func (s *ObjectStore) ListObjects(ctx context.Context) (map[string]time.Time, error) {
	objects := make(map[string]time.Time)
	for info := range s.client.ListObjects(ctx, s.cfg.BucketAssets, minio.ListObjectsOptions{Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects: %w", info.Err)
		}
		objects[info.Key] = info.LastModified
	}
	return objects, nil
}
