package yfinance

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/dividup/dividup/internal/provider"
	"github.com/dividup/dividup/pkg/models"
)

const defaultNewsLimit = 10

// newsFetcher serves ModelCompanyNews from Yahoo Finance's RSS headline
// feed. RSS is the one Yahoo surface that never demands a session.
type newsFetcher struct {
	provider.BaseFetcher
	parser *gofeed.Parser
}

func newNewsFetcher() *newsFetcher {
	return &newsFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelCompanyNews,
			"Company headlines from the Yahoo Finance RSS feed",
			[]string{provider.ParamSymbol},
			[]string{provider.ParamLimit},
			10*time.Minute, 5, time.Second,
		),
		parser: gofeed.NewParser(),
	}
}

func (f *newsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]

	limit := defaultNewsLimit
	if s := params[provider.ParamLimit]; s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return &provider.FetchResult{Data: cached, FetchedAt: time.Now(), Cached: true}, nil
	}

	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	feedURL := fmt.Sprintf(
		"https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US",
		url.QueryEscape(symbol),
	)

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("yfinance news %s: %w", symbol, err)
	}

	items := parseFeed(feed, limit)
	f.CacheSet(cacheKey, items)
	return &provider.FetchResult{Data: items, FetchedAt: time.Now()}, nil
}

func parseFeed(feed *gofeed.Feed, limit int) []models.NewsItem {
	items := make([]models.NewsItem, 0, limit)
	for _, it := range feed.Items {
		if len(items) == limit {
			break
		}
		n := models.NewsItem{
			Title:  it.Title,
			Link:   it.Link,
			Source: feed.Title,
		}
		if it.PublishedParsed != nil {
			n.Published = it.PublishedParsed.UTC()
		}
		items = append(items, n)
	}
	return items
}
