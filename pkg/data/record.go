package data

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Record is one row of a dataset.
type Record map[string]any

// Dataset is an ordered list of records.
type Dataset []Record

// Selector names the record field a chart reads.
type Selector string

// Value returns the raw field value.
func (s Selector) Value(r Record) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[string(s)]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Number returns the field as a finite float64.
func (s Selector) Number(r Record) (float64, bool) {
	v, ok := s.Value(r)
	if !ok {
		return 0, false
	}
	return ToNumber(v)
}

// Key returns the field formatted as a category key.
func (s Selector) Key(r Record) (string, bool) {
	v, ok := s.Value(r)
	if !ok {
		return "", false
	}
	return FormatKey(v), true
}

// ToNumber coerces v to a finite float64. Strings are not coerced: CSV
// import already converts numeric cells, so a string here is a category.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatKey renders a field value as a stable category key.
func FormatKey(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	}
	if f, ok := ToNumber(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// Requirement is a field a record must carry to be plotted.
type Requirement struct {
	Field   Selector
	Numeric bool
}

// Need requires field to be present.
func Need(field Selector) Requirement { return Requirement{Field: field} }

// NeedNumber requires field to be present and numeric.
func NeedNumber(field Selector) Requirement { return Requirement{Field: field, Numeric: true} }

// Malformed describes a record excluded from a render.
type Malformed struct {
	Index  int      // position in the input dataset
	Field  Selector // first field that failed
	Reason string
}

func (m Malformed) String() string {
	return fmt.Sprintf("record %d: field %q %s", m.Index, m.Field, m.Reason)
}

// Partition splits ds into records satisfying every requirement and a
// report of the rest. The order of valid records is preserved.
func Partition(ds Dataset, reqs ...Requirement) (Dataset, []Malformed) {
	valid := make(Dataset, 0, len(ds))
	var bad []Malformed
	for i, r := range ds {
		if m, ok := check(r, reqs); !ok {
			m.Index = i
			bad = append(bad, m)
			continue
		}
		valid = append(valid, r)
	}
	return valid, bad
}

func check(r Record, reqs []Requirement) (Malformed, bool) {
	for _, req := range reqs {
		if req.Field == "" {
			continue
		}
		v, ok := req.Field.Value(r)
		if !ok {
			return Malformed{Field: req.Field, Reason: "is missing"}, false
		}
		if req.Numeric {
			if _, ok := ToNumber(v); !ok {
				return Malformed{Field: req.Field, Reason: fmt.Sprintf("is not numeric (%v)", v)}, false
			}
		}
	}
	return Malformed{}, true
}
