package bookbridge

import (
	"os"
	"path/filepath"

	"github.com/hupe1980/bookbridge/assets"
	"github.com/hupe1980/bookbridge/codec"
	"github.com/hupe1980/bookbridge/similarity"
)

type options struct {
	cacheDir            string
	locations           assets.Locations
	codec               codec.Codec
	logger              *Logger
	rerank              similarity.RerankOptions
	downloadBytesPerSec int
	downloadConcurrency int
}

func defaultOptions() options {
	return options{
		cacheDir:  filepath.Join(os.TempDir(), "bookbridge_cache"),
		locations: assets.DefaultLocations,
		codec:     codec.Default,
		logger:    NoopLogger(),
		rerank:    similarity.DefaultRerankOptions,
	}
}

// Option configures Engine constructor behavior.
type Option func(*options)

// WithCacheDir sets the local directory artifacts are cached in.
func WithCacheDir(dir string) Option {
	return func(o *options) {
		o.cacheDir = dir
	}
}

// WithLocations overrides the remote object names of the three artifacts.
func WithLocations(loc assets.Locations) Option {
	return func(o *options) {
		o.locations = loc
	}
}

// WithCodec configures the codec used for decoding metadata records.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger configures structured logging. Passing nil disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithRerankOptions overrides the rerank merge parameters
// (fanout per seed, final K, seed inclusion, similarity floor).
func WithRerankOptions(opts similarity.RerankOptions) Option {
	return func(o *options) {
		o.rerank = opts
	}
}

// WithDownloadRateLimit caps artifact download bandwidth in bytes per
// second. Zero or negative means unlimited.
func WithDownloadRateLimit(bytesPerSec int) Option {
	return func(o *options) {
		o.downloadBytesPerSec = bytesPerSec
	}
}

// WithDownloadConcurrency bounds parallel metadata shard downloads.
func WithDownloadConcurrency(n int) Option {
	return func(o *options) {
		o.downloadConcurrency = n
	}
}
