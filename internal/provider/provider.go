// Package provider implements the pluggable data-provider layer. It defines
// a Provider interface, a Fetcher interface, and a central registry that
// routes data requests to the appropriate provider based on model type.
package provider

import (
	"context"
	"fmt"
	"time"
)

// Info holds metadata about a registered provider.
type Info struct {
	Name        string      `json:"name"`        // e.g., "yfinance"
	Description string      `json:"description"` // human-readable description
	Website     string      `json:"website"`
	Models      []ModelType `json:"models"` // supported standard models
}

// Provider is the interface that all data providers must implement.
// Each provider registers one or more Fetcher implementations for specific
// standard model types.
type Provider interface {
	// Info returns metadata about this provider.
	Info() Info

	// Fetcher returns the fetcher for the given model type, or nil if
	// unsupported.
	Fetcher(model ModelType) Fetcher

	// SupportedModels returns all model types this provider can fetch.
	SupportedModels() []ModelType

	// Ping verifies the provider's connectivity.
	Ping(ctx context.Context) error
}

// QueryParams is the generic query parameter map passed to fetchers.
// Common keys:
//   - "symbol"     : ticker symbol (e.g., "KO", "SAN.MC")
//   - "start_date" : start date (YYYY-MM-DD)
//   - "end_date"   : end date
//   - "interval"   : bar interval ("1d", "1mo")
//   - "provider"   : override provider name
//
// Each fetcher declares which keys it requires.
type QueryParams map[string]string

const (
	ParamSymbol    = "symbol"
	ParamStartDate = "start_date"
	ParamEndDate   = "end_date"
	ParamInterval  = "interval"
	ParamLimit     = "limit"
	ParamProvider  = "provider"
)

// FetchResult wraps a fetcher result with metadata.
type FetchResult struct {
	Provider  string    `json:"provider"`
	Model     ModelType `json:"model"`
	Data      any       `json:"data"` // typed per model, see ModelType docs
	FetchedAt time.Time `json:"fetched_at"`
	Cached    bool      `json:"cached"`
}

// Fetcher fetches a single standard model type.
type Fetcher interface {
	// ModelType returns the standard model type this fetcher handles.
	ModelType() ModelType

	// Description returns a human-readable description of the fetcher.
	Description() string

	// RequiredParams returns the parameter keys this fetcher requires.
	RequiredParams() []string

	// OptionalParams returns the parameter keys this fetcher optionally
	// accepts.
	OptionalParams() []string

	// Fetch retrieves data for the given query parameters.
	Fetch(ctx context.Context, params QueryParams) (*FetchResult, error)
}

// ErrProviderNotFound is returned when a requested provider is not registered.
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return fmt.Sprintf("provider %q not found", e.Name)
}

// ErrModelNotSupported is returned when a provider doesn't support a model type.
type ErrModelNotSupported struct {
	Provider string
	Model    ModelType
}

func (e *ErrModelNotSupported) Error() string {
	return fmt.Sprintf("provider %q does not support model %q", e.Provider, e.Model)
}

// ErrMissingParam is returned when a required query parameter is missing.
type ErrMissingParam struct {
	Param string
}

func (e *ErrMissingParam) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// ValidateParams checks that all required parameters are present in params.
func ValidateParams(params QueryParams, required []string) error {
	for _, key := range required {
		if v, ok := params[key]; !ok || v == "" {
			return &ErrMissingParam{Param: key}
		}
	}
	return nil
}
