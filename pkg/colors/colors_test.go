package colors

import (
	"image/color"
	"testing"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/errors"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in     string
		want   color.RGBA
		wantOK bool
	}{
		{"#3498DB", color.RGBA{0x34, 0x98, 0xdb, 255}, true},
		{"3498db", color.RGBA{0x34, 0x98, 0xdb, 255}, true},
		{"#fff", color.RGBA{255, 255, 255, 255}, true},
		{"white", color.RGBA{}, false},
		{"#12345", color.RGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseHex(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseHex(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		from, to string
		t        float64
		want     string
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"#000000", "#ffffff", 0.5, "#808080"},
		{"#ff0000", "#0000ff", 0.25, "#bf0040"},
		{"red", "blue", 0.4, "red"},
		{"red", "blue", 0.6, "blue"},
	}
	for _, tt := range tests {
		if got := Blend(tt.from, tt.to, tt.t); got != tt.want {
			t.Errorf("Blend(%s, %s, %v) = %s, want %s", tt.from, tt.to, tt.t, got, tt.want)
		}
	}
}

func TestResolverFixed(t *testing.T) {
	r, err := NewResolver("#3498DB", chart.ColorScale{})
	if err != nil {
		t.Fatal(err)
	}
	r.Fit(data.Dataset{{"v": 1.0}}, "v")
	if got := r.Color(0, data.Record{"v": 1.0}); got != "#3498DB" {
		t.Errorf("Color() = %s, want fixed", got)
	}
}

func TestResolverCategory(t *testing.T) {
	r, err := NewResolver("", chart.ColorScale{Palette: "set1", By: chart.ColorByCategory, Field: "cat"})
	if err != nil {
		t.Fatal(err)
	}
	ds := data.Dataset{{"cat": "a"}, {"cat": "b"}, {"cat": "a"}}
	r.Fit(ds, "v")

	a0, a2, b := r.Color(0, ds[0]), r.Color(2, ds[2]), r.Color(1, ds[1])
	if a0 != a2 {
		t.Errorf("same category got %s and %s", a0, a2)
	}
	if a0 == b {
		t.Errorf("different categories share %s", a0)
	}
}

func TestResolverIndexViridis(t *testing.T) {
	r, err := NewResolver("", chart.ColorScale{Palette: "viridis", By: chart.ColorByIndex})
	if err != nil {
		t.Fatal(err)
	}
	ds := data.Dataset{{}, {}, {}}
	r.Fit(ds, "v")
	first, last := r.Color(0, ds[0]), r.Color(2, ds[2])
	if first == last {
		t.Errorf("viridis endpoints equal: %s", first)
	}
	if _, ok := ParseHex(first); !ok {
		t.Errorf("Color() = %q is not hex", first)
	}
}

func TestResolverUnknownPalette(t *testing.T) {
	_, err := NewResolver("", chart.ColorScale{Palette: "rainbow-sparkle"})
	if !errors.IsConfiguration(err) {
		t.Errorf("error = %v, want configuration error", err)
	}
}
