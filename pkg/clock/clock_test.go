package clock

import (
	"testing"
	"time"
)

func TestManual(t *testing.T) {
	m := NewManual(time.Time{})
	if !m.Now().Equal(Epoch) {
		t.Fatalf("Now() = %v, want %v", m.Now(), Epoch)
	}

	got := m.Advance(250 * time.Millisecond)
	if want := Epoch.Add(250 * time.Millisecond); !got.Equal(want) || !m.Now().Equal(want) {
		t.Errorf("Advance() = %v, want %v", got, want)
	}

	at := Epoch.Add(time.Hour)
	m.Set(at)
	if !m.Now().Equal(at) {
		t.Errorf("Set() then Now() = %v, want %v", m.Now(), at)
	}
}

func TestRealIsClock(t *testing.T) {
	var c Clock = Real{}
	before := time.Now()
	if c.Now().Before(before) {
		t.Error("Real.Now() went backwards")
	}
}
