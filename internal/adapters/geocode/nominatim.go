// Package geocode resolves street addresses to coordinates through a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shelterly/shelterly/internal/core/domain"
	"github.com/shelterly/shelterly/internal/pkg/metrics"
)

// Client implements ports.Geocoder.
type Client struct {
	baseURL     string
	countryCode string
	userAgent   string
	http        *http.Client
}

func New(baseURL, countryCode, userAgent string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		countryCode: countryCode,
		userAgent:   userAgent,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Nominatim returns lat/lon as JSON strings, not numbers.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-form address to a point. A response with no
// results maps to domain.ErrAddressNotFound; transport failures and
// non-2xx statuses map to domain.ErrGeocodingUnavailable.
func (c *Client) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	start := time.Now()
	res, err := c.search(ctx, address)
	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrAddressNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "unavailable"
	}
	metrics.GeocodeRequests.WithLabelValues(outcome).Inc()
	metrics.GeocodeDuration.Observe(time.Since(start).Seconds())
	return res, err
}

func (c *Client) search(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	if c.countryCode != "" {
		q.Set("countrycodes", c.countryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeocodingUnavailable, err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeocodingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrGeocodingUnavailable, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrGeocodingUnavailable, err)
	}
	if len(results) == 0 {
		return nil, domain.ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad latitude %q", domain.ErrGeocodingUnavailable, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad longitude %q", domain.ErrGeocodingUnavailable, results[0].Lon)
	}

	return &domain.GeocodeResult{
		Location:         domain.GeoPoint{Lat: lat, Lon: lon},
		FormattedAddress: results[0].DisplayName,
	}, nil
}
