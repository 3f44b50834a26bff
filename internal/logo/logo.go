// Package logo finds a company logo URL for a profile. The quote feed
// rarely carries one, so we scrape the company website's metadata and fall
// back to a favicon-style service keyed by the site's domain.
package logo

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"

	"github.com/dividup/dividup/internal/infra"
	"github.com/dividup/dividup/pkg/models"
)

// Resolver scrapes logo URLs from company websites, with a small cache so
// repeated analyses of the same ticker don't re-fetch the page.
type Resolver struct {
	cache   *infra.Cache
	limiter *infra.RateLimiter
}

// NewResolver creates a logo resolver with a 24h cache.
func NewResolver() *Resolver {
	return &Resolver{
		cache:   infra.NewCache(24 * time.Hour),
		limiter: infra.NewRateLimiter(2, time.Second),
	}
}

// Resolve returns a logo URL for the profile, or "" when none is found.
// It never returns an error: a missing logo is cosmetic.
func (r *Resolver) Resolve(ctx context.Context, profile *models.Profile) string {
	if profile == nil {
		return ""
	}
	if profile.LogoURL != "" {
		return profile.LogoURL
	}
	domain := websiteDomain(profile.Website)
	if domain == "" {
		return ""
	}

	if cached, ok := r.cache.Get(domain); ok {
		return cached.(string)
	}

	logoURL := r.scrape(ctx, profile.Website)
	if logoURL == "" {
		// Logo aggregators serve square icons by registered domain.
		logoURL = "https://logo.clearbit.com/" + domain
	}
	r.cache.Set(domain, logoURL)
	return logoURL
}

// scrape fetches the site's homepage and pulls the og:image or icon link.
func (r *Resolver) scrape(ctx context.Context, website string) string {
	if err := r.limiter.Wait(ctx); err != nil {
		return ""
	}
	body, _, err := infra.DoGet(ctx, website, nil)
	if err != nil {
		log.Debug().Str("website", website).Err(err).Msg("logo scrape failed")
		return ""
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return ""
	}
	return extractLogo(doc, website)
}

// extractLogo walks the metadata candidates in preference order.
func extractLogo(doc *goquery.Document, base string) string {
	selectors := []struct {
		query, attr string
	}{
		{`meta[property="og:image"]`, "content"},
		{`meta[name="twitter:image"]`, "content"},
		{`link[rel="apple-touch-icon"]`, "href"},
		{`link[rel="icon"]`, "href"},
		{`link[rel="shortcut icon"]`, "href"},
	}
	for _, sel := range selectors {
		if v, ok := doc.Find(sel.query).First().Attr(sel.attr); ok {
			if abs := absoluteURL(base, strings.TrimSpace(v)); abs != "" {
				return abs
			}
		}
	}
	return ""
}

// absoluteURL resolves href against the page URL and keeps only http(s).
func absoluteURL(base, href string) string {
	if href == "" {
		return ""
	}
	bu, err := url.Parse(base)
	if err != nil {
		return ""
	}
	hu, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := bu.ResolveReference(hu)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

// websiteDomain extracts the bare host ("www." stripped) from a website URL.
func websiteDomain(website string) string {
	if website == "" {
		return ""
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
