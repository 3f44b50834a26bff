// Package datasource is the typed facade over the provider registry. The
// analysis pipeline talks to this service, never to providers directly, so
// fallback routing and result-type checks live in one place.
package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/dividup/dividup/internal/provider"
	"github.com/dividup/dividup/pkg/models"
)

// Service routes typed data requests through a provider registry.
type Service struct {
	registry *provider.Registry
}

// New creates a datasource service. If reg is nil, the global registry is
// used.
func New(reg *provider.Registry) *Service {
	if reg == nil {
		reg = provider.Global()
	}
	return &Service{registry: reg}
}

// Registry returns the provider registry used by this service.
func (s *Service) Registry() *provider.Registry {
	return s.registry
}

// History fetches price bars and dividend events for a ticker over a date
// range at the given bar interval ("1d" or "1mo").
func (s *Service) History(ctx context.Context, ticker string, from, to time.Time, interval string) (*models.History, error) {
	params := provider.QueryParams{
		provider.ParamSymbol:    ticker,
		provider.ParamStartDate: from.Format("2006-01-02"),
		provider.ParamEndDate:   to.Format("2006-01-02"),
		provider.ParamInterval:  interval,
	}
	result, err := s.registry.FetchWithFallback(ctx, provider.ModelEquityHistorical, params)
	if err != nil {
		return nil, err
	}
	h, ok := result.Data.(*models.History)
	if !ok {
		return nil, fmt.Errorf("unexpected history type %T from provider %s", result.Data, result.Provider)
	}
	return h, nil
}

// Statements fetches the annual periods of one statement model
// (ModelBalanceSheet, ModelIncomeStatement or ModelCashFlowStatement).
func (s *Service) Statements(ctx context.Context, ticker string, model provider.ModelType) ([]models.StatementPeriod, error) {
	params := provider.QueryParams{provider.ParamSymbol: ticker}
	result, err := s.registry.FetchWithFallback(ctx, model, params)
	if err != nil {
		return nil, err
	}
	periods, ok := result.Data.([]models.StatementPeriod)
	if !ok {
		return nil, fmt.Errorf("unexpected statement type %T from provider %s", result.Data, result.Provider)
	}
	return periods, nil
}

// Profile fetches the company profile.
func (s *Service) Profile(ctx context.Context, ticker string) (*models.Profile, error) {
	params := provider.QueryParams{provider.ParamSymbol: ticker}
	result, err := s.registry.FetchWithFallback(ctx, provider.ModelEquityProfile, params)
	if err != nil {
		return nil, err
	}
	p, ok := result.Data.(*models.Profile)
	if !ok {
		return nil, fmt.Errorf("unexpected profile type %T from provider %s", result.Data, result.Provider)
	}
	return p, nil
}

// News fetches up to limit recent company headlines.
func (s *Service) News(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error) {
	params := provider.QueryParams{provider.ParamSymbol: ticker}
	if limit > 0 {
		params[provider.ParamLimit] = fmt.Sprintf("%d", limit)
	}
	result, err := s.registry.FetchWithFallback(ctx, provider.ModelCompanyNews, params)
	if err != nil {
		return nil, err
	}
	items, ok := result.Data.([]models.NewsItem)
	if !ok {
		return nil, fmt.Errorf("unexpected news type %T from provider %s", result.Data, result.Provider)
	}
	return items, nil
}
