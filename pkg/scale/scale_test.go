package scale

import (
	"math"
	"testing"

	mscale "github.com/aclements/go-moremath/scale"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/errors"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDeriveContinuousHeadroom(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		zeroBased bool
		min, max  float64
	}{
		{"positive", []float64{10, 30}, true, 0, 33},
		{"negative", []float64{-20, 10}, true, -22, 11},
		{"all zero", []float64{0, 0}, true, 0, 1},
		{"extent", []float64{2000, 2010}, false, 2000, 2011},
		{"skips nan", []float64{math.NaN(), 5}, true, 0, 5.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DeriveContinuous(tt.values, tt.zeroBased)
			if !approx(d.Min, tt.min) || !approx(d.Max, tt.max) {
				t.Errorf("domain = [%v, %v], want [%v, %v]", d.Min, d.Max, tt.min, tt.max)
			}
		})
	}

	if !DeriveContinuous(nil, true).Empty() {
		t.Error("empty values should give an empty domain")
	}
}

func TestDeriveKeysFirstSeen(t *testing.T) {
	ds := data.Dataset{{"k": "b"}, {"k": "a"}, {"k": "b"}, {"x": 1}, {"k": "c"}}
	d := DeriveKeys(ds, "k")
	want := []string{"b", "a", "c"}
	if len(d.Keys) != len(want) {
		t.Fatalf("keys = %v, want %v", d.Keys, want)
	}
	for i := range want {
		if d.Keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, d.Keys[i], want[i])
		}
	}
}

func TestLinearMonotonic(t *testing.T) {
	s := NewLinear(0, 33, 180, 0)
	prev := math.Inf(1)
	for v := 0.0; v <= 33; v += 1.5 {
		got := s.MapFloat(v)
		if got >= prev {
			t.Fatalf("reversed scale not decreasing at %v: %v >= %v", v, got, prev)
		}
		prev = got
	}
	if got := s.MapFloat(0); !approx(got, 180) {
		t.Errorf("Map(0) = %v, want 180", got)
	}
	if got := s.MapFloat(33); !approx(got, 0) {
		t.Errorf("Map(33) = %v, want 0", got)
	}
	if _, ok := s.Map("x"); ok {
		t.Error("Map(string) on linear scale should fail")
	}
}

func TestLinearTicksWithinDomain(t *testing.T) {
	s := NewLinear(0, 33, 0, 100)
	ticks := s.Ticks(mscale.TickOptions{Max: 10})
	if len(ticks) == 0 || len(ticks) > 10 {
		t.Fatalf("ticks = %v", ticks)
	}
	for i, tk := range ticks {
		if tk < 0 || tk > 33 {
			t.Errorf("tick %v outside domain", tk)
		}
		if i > 0 && tk <= ticks[i-1] {
			t.Errorf("ticks not increasing: %v", ticks)
		}
	}
}

func TestBandTiling(t *testing.T) {
	b := NewBand([]string{"a", "b", "c", "d"}, 0, 400, 0, 0, false)
	if !approx(b.Bandwidth(), 100) {
		t.Fatalf("Bandwidth() = %v, want 100", b.Bandwidth())
	}
	for i, k := range []string{"a", "b", "c", "d"} {
		pos, ok := b.MapKey(k)
		if !ok || !approx(pos, float64(i)*100) {
			t.Errorf("MapKey(%q) = %v, %v; want %v", k, pos, ok, i*100)
		}
	}

	b3 := NewBand([]string{"a", "b", "c"}, 0, 400, 0, 0, false)
	last, _ := b3.MapKey("c")
	if !approx(last+b3.Bandwidth(), 400) {
		t.Errorf("three bands end at %v, want 400", last+b3.Bandwidth())
	}
}

func TestBandPadding(t *testing.T) {
	// step = 400 / (4 - 0.5 + 2*0.25) = 100
	b := NewBand([]string{"a", "b", "c", "d"}, 0, 400, 0.5, 0.25, false)
	if !approx(b.Step(), 100) || !approx(b.Bandwidth(), 50) {
		t.Fatalf("step/bandwidth = %v/%v", b.Step(), b.Bandwidth())
	}
	if pos, _ := b.MapKey("a"); !approx(pos, 25) {
		t.Errorf("first band at %v, want 25", pos)
	}
	if _, ok := b.Map("zzz"); ok {
		t.Error("unknown key should not map")
	}
}

func TestBandRoundAndReverse(t *testing.T) {
	b := NewBand([]string{"a", "b", "c"}, 0, 400, 0, 0, true)
	if b.Step() != 133 || b.Bandwidth() != 133 {
		t.Errorf("rounded step/bandwidth = %v/%v", b.Step(), b.Bandwidth())
	}
	if pos, _ := b.MapKey("a"); pos != 1 {
		t.Errorf("rounded first band at %v, want 1", pos)
	}

	r := NewBand([]string{"a", "b"}, 200, 0, 0, 0, false)
	a, _ := r.MapKey("a")
	bb, _ := r.MapKey("b")
	if a != 100 || bb != 0 {
		t.Errorf("reversed positions = %v, %v; want 100, 0", a, bb)
	}
}

func TestBuild(t *testing.T) {
	band := chart.AxisConfig{ScaleKind: chart.ScaleBand}
	linear := chart.AxisConfig{ScaleKind: chart.ScaleLinear}
	explicit := chart.AxisConfig{ScaleKind: chart.ScaleLinear, Domain: []float64{0, 50}}

	tests := []struct {
		name     string
		axis     chart.AxisConfig
		domain   Domain
		wantKind chart.ScaleKind
		wantErr  errors.Code
	}{
		{"band", band, Domain{Kind: chart.ScaleBand, Keys: []string{"a"}}, chart.ScaleBand, ""},
		{"linear", linear, DeriveContinuous([]float64{1, 2}, true), chart.ScaleLinear, ""},
		{"explicit domain", explicit, EmptyDomain(chart.ScaleLinear), chart.ScaleLinear, ""},
		{"empty band", band, Domain{Kind: chart.ScaleBand}, KindIdentity, ""},
		{"empty linear", linear, EmptyDomain(chart.ScaleLinear), KindIdentity, ""},
		{"unknown kind", chart.AxisConfig{ScaleKind: "log"}, EmptyDomain(chart.ScaleLinear), "", errors.ErrCodeInvalidScaleKind},
		{"band over numbers", band, DeriveContinuous([]float64{1}, true), "", errors.ErrCodeInvalidScaleKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Build(tt.axis, 0, 400, tt.domain)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if s.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", s.Kind(), tt.wantKind)
			}
		})
	}

	s, _ := Build(explicit, 0, 100, EmptyDomain(chart.ScaleLinear))
	if got, _ := s.Map(25.0); !approx(got, 50) {
		t.Errorf("explicit domain Map(25) = %v, want 50", got)
	}
}

func TestIdentityNeverFails(t *testing.T) {
	s := NewIdentity(0, 400)
	if v, ok := s.Map(12.0); !ok || v != 12 {
		t.Errorf("Map(12) = %v, %v", v, ok)
	}
	if v, ok := s.Map("a"); !ok || v != 0 {
		t.Errorf("Map(a) = %v, %v", v, ok)
	}
	if !s.Domain().Empty() {
		t.Error("identity domain should be empty")
	}
}

func TestDeriveFromConfig(t *testing.T) {
	ds := data.Dataset{{"label": "a", "value": 10.0}, {"label": "b", "value": 30.0}}
	y := Derive(chart.AxisConfig{ScaleKind: chart.ScaleLinear}, ds, "value")
	if !approx(y.Min, 0) || !approx(y.Max, 33) {
		t.Errorf("y domain = [%v, %v], want [0, 33]", y.Min, y.Max)
	}
	x := Derive(chart.AxisConfig{ScaleKind: chart.ScaleBand}, ds, "label")
	if len(x.Keys) != 2 {
		t.Errorf("x keys = %v", x.Keys)
	}
}
