package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/shelterly/shelterly/internal/core/domain"
	"github.com/shelterly/shelterly/internal/core/ports"
)

// GeocodeService resolves addresses via the external geocoder, with a
// long-lived cache in front (street addresses do not move).
type GeocodeService struct {
	geocoder ports.Geocoder
	cache    ports.CacheService
}

// NewGeocodeService creates a new GeocodeService.
func NewGeocodeService(geocoder ports.Geocoder, cache ports.CacheService) *GeocodeService {
	return &GeocodeService{geocoder: geocoder, cache: cache}
}

// Geocode resolves a free-text address to a coordinate and display name.
func (s *GeocodeService) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	if address == "" {
		return nil, fmt.Errorf("address must not be empty")
	}

	cacheKey := geocodeCacheKey(address)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var res domain.GeocodeResult
			if err := json.Unmarshal(data, &res); err == nil {
				return &res, nil
			}
		}
	}

	res, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(res); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 86400)
		}
	}

	return res, nil
}

func geocodeCacheKey(address string) string {
	h := sha256.Sum256([]byte(address))
	return "geocode:" + hex.EncodeToString(h[:8])
}
