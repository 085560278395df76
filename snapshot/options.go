package snapshot

// Option configures Encode.
type Option func(*options)

type options struct {
	compression Compression
}

func defaultOptions() options {
	return options{compression: CompressionZstd}
}

// WithCompression selects the pixel payload compression. The default is
// zstd. Payloads that do not shrink are always stored uncompressed.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}
