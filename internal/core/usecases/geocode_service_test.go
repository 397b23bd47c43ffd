package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shelterly/shelterly/internal/adapters/valkey"
	"github.com/shelterly/shelterly/internal/core/domain"
	"github.com/shelterly/shelterly/internal/core/usecases"
)

type mockGeocoder struct {
	geocodeFn func(ctx context.Context, address string) (*domain.GeocodeResult, error)
	calls     int
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	m.calls++
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, address)
	}
	return nil, domain.ErrAddressNotFound
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func TestGeocode_EmptyAddress(t *testing.T) {
	svc := usecases.NewGeocodeService(&mockGeocoder{}, nil)
	if _, err := svc.Geocode(context.Background(), ""); err == nil {
		t.Error("expected error for empty address")
	}
}

func TestGeocode_PropagatesNotFound(t *testing.T) {
	svc := usecases.NewGeocodeService(&mockGeocoder{}, nil)
	_, err := svc.Geocode(context.Background(), "ul. Nieistniejaca 1, Warszawa")
	if !errors.Is(err, domain.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestGeocode_CachesResult(t *testing.T) {
	gc := &mockGeocoder{
		geocodeFn: func(ctx context.Context, address string) (*domain.GeocodeResult, error) {
			return &domain.GeocodeResult{
				Location:         domain.GeoPoint{Lat: 52.2297, Lon: 21.0122},
				FormattedAddress: "Warszawa, Polska",
			}, nil
		},
	}
	svc := usecases.NewGeocodeService(gc, newMemCache())

	for i := 0; i < 3; i++ {
		res, err := svc.Geocode(context.Background(), "Warszawa")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Location.Lat != 52.2297 {
			t.Errorf("unexpected result: %+v", res)
		}
	}
	if gc.calls != 1 {
		t.Errorf("expected a single upstream call, got %d", gc.calls)
	}
}

func TestGeocode_DisconnectedCacheFallsThrough(t *testing.T) {
	gc := &mockGeocoder{
		geocodeFn: func(ctx context.Context, address string) (*domain.GeocodeResult, error) {
			return &domain.GeocodeResult{
				Location:         domain.GeoPoint{Lat: 52.2297, Lon: 21.0122},
				FormattedAddress: address,
			}, nil
		},
	}
	var cache *valkey.Cache
	svc := usecases.NewGeocodeService(gc, cache)

	res, err := svc.Geocode(context.Background(), "Plac Defilad 1, Warszawa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Location.Lat != 52.2297 {
		t.Errorf("unexpected result: %+v", res)
	}
	if gc.calls != 1 {
		t.Errorf("expected one geocoder call, got %d", gc.calls)
	}
}
