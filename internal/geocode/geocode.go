// Package geocode resolves package addresses to map coordinates through the
// Google Geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/suhelali14/SafarWay-sub004/internal/observability"
)

const DefaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

var (
	ErrNotConfigured = errors.New("geocoding api key is not configured")
	ErrNoResults     = errors.New("address not found")
)

// Location is a resolved map marker.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Valid reports whether the location has usable coordinates.
func (l Location) Valid() bool {
	return l.Lat != 0 || l.Lng != 0
}

type apiResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// MaxCacheEntries bounds the lookup cache.
const MaxCacheEntries = 1024

// Client looks addresses up and caches up to MaxCacheEntries successful
// answers.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string

	mu    sync.RWMutex
	cache map[string]Location
	group singleflight.Group
}

func NewClient(apiKey, endpoint string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
		cache:      make(map[string]Location),
	}
}

// Enabled reports whether an API key is set.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

func cacheKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Lookup geocodes one address. Concurrent lookups of the same address share
// a single API call.
func (c *Client) Lookup(ctx context.Context, address string) (Location, error) {
	if !c.Enabled() {
		return Location{}, ErrNotConfigured
	}
	key := cacheKey(address)
	if key == "" {
		return Location{}, ErrNoResults
	}

	c.mu.RLock()
	loc, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		observability.RecordGeocode("cache")
		return loc, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		loc, err := c.fetch(ctx, address)
		if err != nil {
			return Location{}, err
		}
		c.store(key, loc)
		return loc, nil
	})
	if err != nil {
		return Location{}, err
	}
	observability.RecordGeocode("api")
	return v.(Location), nil
}

// store caches loc, dropping an arbitrary entry once MaxCacheEntries is reached.
func (c *Client) store(key string, loc Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache[key]; !ok && len(c.cache) >= MaxCacheEntries {
		for k := range c.cache {
			delete(c.cache, k)
			break
		}
	}
	c.cache[key] = loc
}

func (c *Client) fetch(ctx context.Context, address string) (Location, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("build geocode request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, fmt.Errorf("decode geocode response: %w", err)
	}
	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Location{}, ErrNoResults
	default:
		return Location{}, fmt.Errorf("geocode: %s %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return Location{}, ErrNoResults
	}

	first := body.Results[0]
	return Location{
		Address: first.FormattedAddress,
		Lat:     first.Geometry.Location.Lat,
		Lng:     first.Geometry.Location.Lng,
	}, nil
}

// Resolve returns the geocoded address, or the stored coordinates when the
// client is disabled or the lookup fails.
func (c *Client) Resolve(ctx context.Context, address string, lat, lng float64) Location {
	fallback := Location{Address: address, Lat: lat, Lng: lng}
	if !c.Enabled() || strings.TrimSpace(address) == "" {
		observability.RecordGeocode("fallback")
		return fallback
	}
	loc, err := c.Lookup(ctx, address)
	if err != nil {
		log.Warn().Err(err).Str("address", address).Msg("geocode failed, using stored coordinates")
		observability.RecordGeocode("fallback")
		return fallback
	}
	return loc
}
