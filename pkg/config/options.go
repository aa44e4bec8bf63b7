package config

import (
	"github.com/ninja0404/wallet-mirror/pkg/config/reader"
	"github.com/ninja0404/wallet-mirror/pkg/config/source"
)

type Options struct {
	Reader reader.Reader
	Source []source.Source
}

type Option func(o *Options)

// WithSource appends a source to list of sources
func WithSource(s source.Source) Option {
	return func(o *Options) {
		o.Source = append(o.Source, s)
	}
}

// WithReader sets the config reader
func WithReader(r reader.Reader) Option {
	return func(o *Options) {
		o.Reader = r
	}
}
