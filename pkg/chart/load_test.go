package chart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/animchart/pkg/errors"
)

const tomlConfig = `
chart_type = "barChartVertical"
x_field = "label"
y_field = "value"
stagger_ms = 50
labels_enabled = true
label_format = "%.0f"

[margin]
top = 10
right = 10
bottom = 10
left = 10

[x_axis]
band_padding = 0.0

[y_axis]
tick_count = 5
tick_values = [0, 10, 20]
`

const yamlConfig = `
chart_type: hbar
x_field: value
y_field: label
color_scale:
  palette: Set1
  by: category
`

func TestDecode(t *testing.T) {
	cfg, err := Decode(strings.NewReader(tomlConfig), FormatTOML)
	if err != nil {
		t.Fatalf("Decode(toml) error = %v", err)
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if cfg.ChartType != KindBar || cfg.Margin.Left != 10 || cfg.StaggerMs != 50 {
		t.Errorf("decoded = %+v", cfg)
	}
	if inner, _ := cfg.XAxis.Padding(); inner != 0 {
		t.Errorf("band padding = %v, want explicit 0", inner)
	}
	if len(cfg.YAxis.TickValues) != 3 {
		t.Errorf("tick values = %v", cfg.YAxis.TickValues)
	}

	cfg, err = Decode(strings.NewReader(yamlConfig), FormatYAML)
	if err != nil {
		t.Fatalf("Decode(yaml) error = %v", err)
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if cfg.ColorScale.By != ColorByCategory || cfg.ColorScale.Field != "label" {
		t.Errorf("color scale = %+v", cfg.ColorScale)
	}

	cfg, err = Decode(strings.NewReader(`{"chart_type":"line","x_field":"t","y_field":"v"}`), FormatJSON)
	if err != nil || cfg.ChartType != KindLine {
		t.Errorf("Decode(json) = %+v, %v", cfg, err)
	}
}

func TestDecodeUnknownKeys(t *testing.T) {
	tests := []struct {
		format string
		input  string
	}{
		{FormatTOML, "chart_type = \"bar\"\nbar_colour = \"red\"\n"},
		{FormatYAML, "chart_type: bar\nbar_colour: red\n"},
		{FormatJSON, `{"chart_type":"bar","bar_colour":"red"}`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Decode() error = %v, want invalid config", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.toml")
	if err := os.WriteFile(path, []byte(tomlConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.YAxis.TickCount != 5 {
		t.Errorf("TickCount = %d", cfg.YAxis.TickCount)
	}

	if _, err := LoadFile(filepath.Join(dir, "nope.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "chart.ini")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("bad extension error = %v", err)
	}
}
