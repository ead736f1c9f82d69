package buffer

import "github.com/dshills/inkwell/internal/engine/history"

// Option configures a FileBuffer during creation.
type Option func(*FileBuffer)

// WithLanguage sets the language name used by Retokenize.
func WithLanguage(name string) Option {
	return func(b *FileBuffer) {
		b.language = name
	}
}

// WithPath associates the buffer with a file path.
func WithPath(path string) Option {
	return func(b *FileBuffer) {
		b.path = path
	}
}

// WithHistory sets options for the buffer's history.
func WithHistory(opts ...history.Option) Option {
	return func(b *FileBuffer) {
		b.historyOpts = append(b.historyOpts, opts...)
	}
}
