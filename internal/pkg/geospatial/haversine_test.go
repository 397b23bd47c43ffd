package geospatial

import "testing"

func TestDistanceKm_Symmetric(t *testing.T) {
	ab := DistanceKm(52.2297, 21.0122, 50.0647, 19.9450)
	ba := DistanceKm(50.0647, 19.9450, 52.2297, 21.0122)
	if ab != ba {
		t.Errorf("distance not symmetric: %f vs %f", ab, ba)
	}
}

func TestDistanceKm_Identity(t *testing.T) {
	if d := DistanceKm(52.2297, 21.0122, 52.2297, 21.0122); d != 0.0 {
		t.Errorf("expected 0.00 for identical points, got %f", d)
	}
}

func TestDistanceKm_WarsawKrakow(t *testing.T) {
	d := DistanceKm(52.2297, 21.0122, 50.0647, 19.9450)
	if d < 252.0 || d > 253.0 {
		t.Errorf("Warsaw-Krakow distance out of expected range: %f km", d)
	}
}

func TestDistanceKm_TwoDecimalPlaces(t *testing.T) {
	d := DistanceKm(52.2297, 21.0122, 52.4064, 16.9252)
	scaled := d * 100
	if scaled != float64(int64(scaled)) {
		t.Errorf("distance not rounded to 2 decimal places: %v", d)
	}
}
