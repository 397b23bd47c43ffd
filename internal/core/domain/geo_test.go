package domain

import "testing"

func TestParseLocation_WKT(t *testing.T) {
	p := ParseLocation("POINT(21.0122 52.2297)")
	if p.Lat != 52.2297 || p.Lon != 21.0122 {
		t.Errorf("WKT parsed wrong (lon is first in WKT): %+v", p)
	}
}

func TestParseLocation_WKTNegative(t *testing.T) {
	p := ParseLocation("POINT(-2.935 43.263)")
	if p.Lat != 43.263 || p.Lon != -2.935 {
		t.Errorf("negative longitude parsed wrong: %+v", p)
	}
}

func TestParseLocation_GeoJSON(t *testing.T) {
	raw := map[string]any{
		"type":        "Point",
		"coordinates": []any{21.0122, 52.2297},
	}
	p := ParseLocation(raw)
	if p.Lat != 52.2297 || p.Lon != 21.0122 {
		t.Errorf("GeoJSON parsed wrong: %+v", p)
	}
}

func TestParseLocation_Bytes(t *testing.T) {
	p := ParseLocation([]byte("POINT(19.9450 50.0647)"))
	if p.Lat != 50.0647 || p.Lon != 19.9450 {
		t.Errorf("byte WKT parsed wrong: %+v", p)
	}
}

func TestParseLocation_Fallback(t *testing.T) {
	cases := []any{
		nil,
		"",
		"not a point",
		"POINT()",
		42,
		map[string]any{"coordinates": "oops"},
		map[string]any{"coordinates": []any{21.0}},
		(*string)(nil),
	}
	for _, raw := range cases {
		if p := ParseLocation(raw); p != FallbackLocation {
			t.Errorf("ParseLocation(%v) = %+v, want fallback", raw, p)
		}
	}
}
