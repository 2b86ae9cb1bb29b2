// Package minio implements storage.Storage on a MinIO server.
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/storage"
)

// Config holds MinIO settings.
type Config struct {
	// Endpoint is host:port without scheme.
	Endpoint  string `mapstructure:"endpoint" json:"endpoint"`
	AccessKey string `mapstructure:"access_key" json:"-"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	Bucket    string `mapstructure:"bucket" json:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl" json:"use_ssl"`
	// PublicURL replaces scheme and host of returned links, for servers
	// behind a reverse proxy.
	PublicURL string `mapstructure:"public_url" json:"public_url"`
	// CreateBucket makes the bucket on start when it does not exist.
	CreateBucket bool `mapstructure:"create_bucket" json:"create_bucket"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("minio: endpoint is required")
	}
	if c.Bucket == "" {
		return errors.New("minio: bucket is required")
	}
	return nil
}

// Factory builds a MinIO Storage from a config map.
func Factory() provider.Factory[storage.Storage] {
	return func(cfg map[string]any) (storage.Storage, error) {
		return NewStorage(context.Background(), Config{
			Endpoint:     provider.String(cfg, "endpoint"),
			AccessKey:    provider.String(cfg, "access_key"),
			SecretKey:    provider.String(cfg, "secret_key"),
			Bucket:       provider.String(cfg, "bucket"),
			UseSSL:       provider.Bool(cfg, "use_ssl"),
			PublicURL:    provider.String(cfg, "public_url"),
			CreateBucket: provider.Bool(cfg, "create_bucket"),
		})
	}
}

// Storage implements storage.Storage using minio-go.
type Storage struct {
	client    *miniogo.Client
	bucket    string
	publicURL *url.URL
}

// NewStorage creates the client and, if configured, the bucket.
func NewStorage(ctx context.Context, cfg Config) (*Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create minio client: %w", err)
	}

	s := &Storage{client: client, bucket: cfg.Bucket}
	if cfg.PublicURL != "" {
		u, err := url.Parse(cfg.PublicURL)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("minio: invalid public_url %q", cfg.PublicURL)
		}
		s.publicURL = u
	}
	if cfg.CreateBucket {
		if err := s.ensureBucket(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Storage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: create bucket: %w", err)
	}
	return nil
}

// Name returns the backend name.
func (s *Storage) Name() string { return storage.ProviderMinio }

// IsAvailable reports whether the bucket exists and is reachable.
func (s *Storage) IsAvailable(ctx context.Context) bool {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	return err == nil && ok
}

// Put uploads the object.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, miniogo.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storage: minio put: %w", err)
	}
	return nil
}

// Get downloads the object. The existence check happens eagerly so a
// missing key surfaces as storage.ErrNotFound.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: minio get: %w", err)
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("storage: minio get: %w", err)
	}
	return obj, nil
}

// Delete removes the object.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: minio delete: %w", err)
	}
	return nil
}

// Exists stats the object.
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: minio stat: %w", err)
	}
	return true, nil
}

// URL returns the unsigned object URL.
func (s *Storage) URL(_ context.Context, key string) (string, error) {
	u := *s.client.EndpointURL()
	u.Path = "/" + s.bucket + "/" + strings.TrimLeft(key, "/")
	return s.public(&u).String(), nil
}

// SignedURL returns a pre-signed GET link valid for expiry.
func (s *Storage) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("storage: minio presign: %w", err)
	}
	return s.public(u).String(), nil
}

// List returns the objects under prefix.
func (s *Storage) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	objects := []storage.Object{}
	for info := range s.client.ListObjects(ctx, s.bucket, miniogo.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("storage: minio list: %w", info.Err)
		}
		objects = append(objects, storage.Object{
			Key:          info.Key,
			Size:         info.Size,
			LastModified: info.LastModified,
			ContentType:  info.ContentType,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// public swaps scheme and host for the configured public URL.
func (s *Storage) public(u *url.URL) *url.URL {
	if s.publicURL == nil {
		return u
	}
	out := *u
	out.Scheme = s.publicURL.Scheme
	out.Host = s.publicURL.Host
	out.Path = strings.TrimRight(s.publicURL.Path, "/") + u.Path
	return &out
}

func isNotFound(err error) bool {
	code := miniogo.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

var (
	_ storage.Storage           = (*Storage)(nil)
	_ storage.SignedURLProvider = (*Storage)(nil)
)
