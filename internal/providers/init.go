// Package providers initializes and registers all concrete data providers
// with the global provider registry.
package providers

import (
	"time"

	"github.com/dividup/dividup/internal/provider"
	"github.com/dividup/dividup/internal/providers/yfinance"
)

// Options tunes the registered providers. Zero durations keep each
// provider's defaults.
type Options struct {
	QuoteCacheTTL     time.Duration
	StatementCacheTTL time.Duration
}

// RegisterAll creates and registers all available providers with the
// global registry.
func RegisterAll() error {
	return RegisterAllTo(provider.Global())
}

// RegisterAllTo registers all available providers to the given registry
// with default settings.
func RegisterAllTo(reg *provider.Registry) error {
	return RegisterAllToWith(reg, Options{})
}

// RegisterAllToWith registers all available providers with explicit options.
func RegisterAllToWith(reg *provider.Registry, opts Options) error {
	// Yahoo Finance is free and needs no API key, so it is always on and
	// is the default for every model it supports.
	if opts.QuoteCacheTTL > 0 || opts.StatementCacheTTL > 0 {
		return reg.Register(yfinance.NewWithTTLs(opts.QuoteCacheTTL, opts.StatementCacheTTL))
	}
	return reg.Register(yfinance.New())
}
