// Package local implements storage.Storage on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/storage"
)

// DefaultBasePath is the default root directory.
const DefaultBasePath = "/tmp/speechkit/storage"

// Config holds local filesystem storage configuration.
type Config struct {
	// BasePath is the root directory objects are written under.
	BasePath string `mapstructure:"base_path" json:"base_path"`
	// PublicURL, when set, is the prefix of URLs returned by URL instead of
	// file:// links.
	PublicURL string `mapstructure:"public_url" json:"public_url"`
}

// Factory builds a local Storage from a config map.
func Factory() provider.Factory[storage.Storage] {
	return func(cfg map[string]any) (storage.Storage, error) {
		return NewStorage(Config{
			BasePath:  provider.String(cfg, "base_path"),
			PublicURL: provider.String(cfg, "public_url"),
		})
	}
}

// Storage implements storage.Storage using the local filesystem.
type Storage struct {
	basePath  string
	publicURL string
}

// NewStorage creates the base directory and returns the storage.
func NewStorage(cfg Config) (*Storage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}
	abs, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Storage{basePath: abs, publicURL: strings.TrimRight(cfg.PublicURL, "/")}, nil
}

// Name returns the backend name.
func (s *Storage) Name() string { return storage.ProviderLocal }

// IsAvailable reports whether the base directory is still there.
func (s *Storage) IsAvailable(context.Context) bool {
	info, err := os.Stat(s.basePath)
	return err == nil && info.IsDir()
}

// resolve maps a key to a path under the base directory. Keys that would
// escape it are rejected.
func (s *Storage) resolve(key string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(key))
	if clean == "/" {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}

// Put writes to a temporary file next to the target and renames it into
// place, so readers never see a partial object.
func (s *Storage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: create file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("storage: write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("storage: close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("storage: rename file: %w", err)
	}
	return nil
}

// Get opens the file stored under key.
func (s *Storage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("storage: open file: %w", err)
	}
	return f, nil
}

// Delete removes the file. Missing files are ignored.
func (s *Storage) Delete(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// Exists checks whether a file is stored under key.
func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	full, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat file: %w", err)
	}
	return true, nil
}

// URL returns PublicURL/key when configured, else a file:// URL.
func (s *Storage) URL(_ context.Context, key string) (string, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if s.publicURL != "" {
		rel, _ := filepath.Rel(s.basePath, full)
		return s.publicURL + "/" + filepath.ToSlash(rel), nil
	}
	return (&url.URL{Scheme: "file", Path: full}).String(), nil
}

// List returns the files whose key starts with prefix.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.Object, error) {
	objects := []storage.Object{}
	err := filepath.WalkDir(s.basePath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		ct := mime.TypeByExtension(filepath.Ext(p))
		if ct == "" {
			ct = "application/octet-stream"
		}
		objects = append(objects, storage.Object{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  ct,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list files: %w", err)
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key < objects[j].Key
	})
	return objects, nil
}

var _ storage.Storage = (*Storage)(nil)
