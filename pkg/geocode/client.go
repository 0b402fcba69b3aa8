// Package geocode resolves free-form addresses to coordinates using a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lc3t35/GlobalHaven/prometheus"
)

const (
	DefaultURL       = "https://nominatim.openstreetmap.org/search"
	DefaultUserAgent = "GlobalHaven/1.0"

	// DefaultCacheTTL is how long a matched address stays cached
	DefaultCacheTTL = 30 * 24 * time.Hour
	// DefaultMissCacheTTL is how long a miss stays cached before the
	// upstream is asked again
	DefaultMissCacheTTL = 24 * time.Hour
)

// ErrCacheMiss is returned by Cache.Get when nothing is stored for a key
var ErrCacheMiss = eris.New("geocode: cache miss")

// Geocoder turns an address into coordinates. A lookup that cannot be
// answered is reported as Matched=false, never as an error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the geocoding output for an address
type Result struct {
	Latitude  float64
	Longitude float64
	Matched   bool
}

// CachedResult is a stored answer and the time it was stored
type CachedResult struct {
	Result
	CachedAt time.Time
}

// Cache stores previous answers keyed by CacheKey(address)
type Cache interface {
	Get(ctx context.Context, key string) (*CachedResult, error)
	Set(ctx context.Context, key, address string, result *Result) error
}

// Option configures the geocoder
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(g *geocoder) {
		g.httpClient = &http.Client{Timeout: d}
	}
}

// WithRateLimit sets the outbound requests-per-second limit
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBaseURL points the client at another search endpoint
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		g.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header sent upstream
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		g.userAgent = ua
	}
}

// WithCache enables result caching
func WithCache(c Cache) Option {
	return func(g *geocoder) {
		g.cache = c
	}
}

// WithCacheTTL sets how long matched answers are served from the cache.
// Zero keeps them forever.
func WithCacheTTL(d time.Duration) Option {
	return func(g *geocoder) {
		g.cacheTTL = d
	}
}

// WithMissCacheTTL sets how long misses are served from the cache. Zero
// keeps them forever.
func WithMissCacheTTL(d time.Duration) Option {
	return func(g *geocoder) {
		g.missTTL = d
	}
}

// WithLogger sets the logger used for swallowed failures
func WithLogger(l *zap.Logger) Option {
	return func(g *geocoder) {
		g.log = l
	}
}

type geocoder struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	cache      Cache
	cacheTTL   time.Duration
	missTTL    time.Duration
	log        *zap.Logger
	now        func() time.Time
}

// NewClient creates a new Geocoder with the given options
func NewClient(opts ...Option) Geocoder {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(1, 1), // Nominatim usage policy: 1 req/s
		baseURL:    DefaultURL,
		userAgent:  DefaultUserAgent,
		cacheTTL:   DefaultCacheTTL,
		missTTL:    DefaultMissCacheTTL,
		log:        zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode resolves address, consulting the cache first when one is set.
// Upstream and cache failures are logged and never returned.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	if strings.TrimSpace(address) == "" {
		return &Result{Matched: false}, nil
	}

	key := CacheKey(address)
	if g.cache != nil {
		cached, err := g.cache.Get(ctx, key)
		switch {
		case err == nil && g.fresh(cached):
			prometheus.RecordGeocode("hit")
			return &cached.Result, nil
		case err == nil:
			prometheus.RecordGeocode("expired")
		case !eris.Is(err, ErrCacheMiss):
			g.log.Warn("geocode cache lookup failed", zap.Error(err))
		}
	}

	result, err := g.search(ctx, address)
	if err != nil {
		prometheus.RecordGeocode("error")
		g.log.Warn("geocoding failed", zap.String("address", address), zap.Error(err))
		return &Result{Matched: false}, nil
	}

	if result.Matched {
		prometheus.RecordGeocode("matched")
	} else {
		prometheus.RecordGeocode("not_found")
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, address, result); err != nil {
			g.log.Warn("geocode cache store failed", zap.Error(err))
		}
	}

	return result, nil
}

// fresh reports whether a cached answer is still within its TTL
func (g *geocoder) fresh(c *CachedResult) bool {
	ttl := g.cacheTTL
	if !c.Matched {
		ttl = g.missTTL
	}
	return ttl <= 0 || g.now().Sub(c.CachedAt) < ttl
}
