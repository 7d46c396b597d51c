package source

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches spec documents. The implementation lives in
// internal/source/loader and is constructed by the root package.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem backs FS sources.
	FileSystem fs.FS

	// HTTPClient enables URL sources with a caller-supplied client.
	HTTPClient *http.Client

	// AllowHTTPFallback enables URL sources with a default client when no
	// HTTPClient is set.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetches.
	RequestTimeout time.Duration

	// MaxBytes limits how much of a document is read. Zero means
	// DefaultMaxBytes.
	MaxBytes int64
}

// DefaultMaxBytes bounds spec documents; real specs are a few kilobytes.
const DefaultMaxBytes int64 = 1 << 20

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS for FS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects the client used for URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables URL sources with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithMaxBytes overrides DefaultMaxBytes.
func WithMaxBytes(limit int64) LoaderOption {
	return func(opts *LoaderOptions) {
		if limit > 0 {
			opts.MaxBytes = limit
		}
	}
}

// NewLoaderOptions applies options over the defaults.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{MaxBytes: DefaultMaxBytes}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
