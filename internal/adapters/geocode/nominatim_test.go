package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shelterly/shelterly/internal/core/domain"
)

func TestGeocode_ResolvesAddress(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":            r.URL.Query().Get("q"),
			"format":       r.URL.Query().Get("format"),
			"limit":        r.URL.Query().Get("limit"),
			"countrycodes": r.URL.Query().Get("countrycodes"),
			"User-Agent":   r.Header.Get("User-Agent"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"52.2297","lon":"21.0122","display_name":"Warszawa, Poland"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "pl", "Shelterly/1.0")
	res, err := c.Geocode(context.Background(), "Marszałkowska 1, Warszawa")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if res.Location.Lat != 52.2297 || res.Location.Lon != 21.0122 {
		t.Errorf("location = %+v", res.Location)
	}
	if res.FormattedAddress != "Warszawa, Poland" {
		t.Errorf("formatted = %q", res.FormattedAddress)
	}
	if gotQuery["q"] != "Marszałkowska 1, Warszawa" {
		t.Errorf("q = %q", gotQuery["q"])
	}
	if gotQuery["format"] != "json" || gotQuery["limit"] != "1" {
		t.Errorf("format/limit = %q/%q", gotQuery["format"], gotQuery["limit"])
	}
	if gotQuery["countrycodes"] != "pl" {
		t.Errorf("countrycodes = %q", gotQuery["countrycodes"])
	}
	if gotQuery["User-Agent"] != "Shelterly/1.0" {
		t.Errorf("user agent = %q", gotQuery["User-Agent"])
	}
}

func TestGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "pl", "Shelterly/1.0")
	_, err := c.Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("err = %v, want ErrAddressNotFound", err)
	}
}

func TestGeocode_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "pl", "Shelterly/1.0")
	_, err := c.Geocode(context.Background(), "Marszałkowska 1")
	if !errors.Is(err, domain.ErrGeocodingUnavailable) {
		t.Fatalf("err = %v, want ErrGeocodingUnavailable", err)
	}
	if errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatal("unavailable must not match not-found")
	}
}

func TestGeocode_MalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"not-a-number","lon":"21.0","display_name":"x"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "pl", "Shelterly/1.0")
	_, err := c.Geocode(context.Background(), "somewhere")
	if !errors.Is(err, domain.ErrGeocodingUnavailable) {
		t.Fatalf("err = %v, want ErrGeocodingUnavailable", err)
	}
}
