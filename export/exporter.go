package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/speechkit/alignment"
	"github.com/kbukum/speechkit/encryption"
	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/resilience"
	"github.com/kbukum/speechkit/storage"
)

// Artifact is an exported transcript file.
type Artifact struct {
	Format      Format `json:"format"`
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
	Data        []byte `json:"-"`
}

// Stored describes an artifact written to storage.
type Stored struct {
	Key string `json:"key"`
	URL string `json:"url"`
	// Encrypted is set when the object was sealed before upload. Its key
	// then ends in SealedSuffix.
	Encrypted bool `json:"encrypted,omitempty"`
}

// SealedSuffix is appended to the key of encrypted objects.
const SealedSuffix = ".enc"

const sealedContentType = "application/octet-stream"

// Exporter renders transcripts and persists them.
type Exporter struct {
	cfg       Config
	store     func() storage.Storage
	urlExpiry time.Duration
	now       func() time.Time
	newID     func() string
	log       *logger.Logger
	sealer    encryption.Sealer
	sealErr   error
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithStorage enables Store.
func WithStorage(s storage.Storage) Option {
	return func(e *Exporter) { e.store = func() storage.Storage { return s } }
}

// StorageSource hands out a backend that may only exist once its owner has
// started, such as *storage.Component.
type StorageSource interface {
	Storage() storage.Storage
}

// WithStorageSource enables Store with a backend looked up on every call.
func WithStorageSource(src StorageSource) Option {
	return func(e *Exporter) { e.store = src.Storage }
}

// WithURLExpiry makes Store return signed links valid for d when the
// backend supports them.
func WithURLExpiry(d time.Duration) Option {
	return func(e *Exporter) { e.urlExpiry = d }
}

// WithClock overrides the clock used for object keys.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithIDGenerator overrides the object name generator.
func WithIDGenerator(gen func() string) Option {
	return func(e *Exporter) { e.newID = gen }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Exporter) { e.log = l }
}

// NewExporter creates an Exporter.
func NewExporter(cfg Config, opts ...Option) *Exporter {
	cfg.ApplyDefaults()
	e := &Exporter{
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get("export")
	}
	if cfg.Encryption.Enabled() {
		// Store refuses to upload plaintext when the sealer is unusable.
		e.sealer, e.sealErr = encryption.New(cfg.Encryption)
	}
	return e
}

// CanStore reports whether a storage backend is available.
func (e *Exporter) CanStore() bool { return e.backend() != nil }

func (e *Exporter) backend() storage.Storage {
	if e.store == nil {
		return nil
	}
	return e.store()
}

// Export renders utts in the given format.
func (e *Exporter) Export(_ context.Context, utts []alignment.Utterance, format Format) (*Artifact, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatTXT:
		data = []byte(alignment.RenderWithLabel(utts, e.cfg.TranslationLabel))
	case FormatJSON:
		data, err = encodeJSON(utts)
	case FormatPDF:
		data, err = encodePDF(alignment.RenderWithLabel(utts, e.cfg.TranslationLabel), e.cfg.PDFFont)
	default:
		return nil, apperrors.InvalidInput("format", fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Artifact{
		Format:      format,
		ContentType: format.ContentType(),
		FileName:    "transcript." + string(format),
		Data:        data,
	}, nil
}

// Store uploads the artifact and returns its key and URL. Uploads are
// retried because writing the same key twice is harmless.
func (e *Exporter) Store(ctx context.Context, a *Artifact) (*Stored, error) {
	store := e.backend()
	if store == nil {
		return nil, apperrors.ServiceUnavailable("storage")
	}
	if e.sealErr != nil {
		return nil, apperrors.Internal(e.sealErr)
	}
	key := e.objectKey(a.Format)
	data, contentType := a.Data, a.ContentType
	if e.sealer != nil {
		sealed, err := e.sealer.Seal(data)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		data, contentType = sealed, sealedContentType
		key += SealedSuffix
	}

	started := time.Now()
	retry := e.cfg.Retry
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		e.log.Warn("Transcript upload failed, retrying", map[string]interface{}{
			"key":     key,
			"attempt": attempt,
			"backoff": backoff.String(),
			"error":   err.Error(),
		})
	}
	err := resilience.RetryFunc(ctx, retry, func() error {
		return store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	})
	if err != nil {
		return nil, apperrors.ExternalServiceError("storage", err)
	}

	url, err := storage.ShareURL(ctx, store, key, e.urlExpiry)
	if err != nil {
		return nil, apperrors.ExternalServiceError("storage", err)
	}

	e.log.Info("Transcript stored", logger.MergeWithDuration(map[string]interface{}{
		"key":                key,
		"encrypted":          e.sealer != nil,
		logger.FieldBytes:    len(data),
		logger.FieldProvider: store.Name(),
	}, time.Since(started)))
	return &Stored{Key: key, URL: url, Encrypted: e.sealer != nil}, nil
}

func (e *Exporter) objectKey(f Format) string {
	now := e.now().UTC()
	return path.Join(e.cfg.KeyPrefix, fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), e.newID()+"."+string(f))
}
