package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidChartType, "unknown chart type: %s", "pie3d")

	if err.Code != ErrCodeInvalidChartType {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidChartType)
	}

	if err.Message != "unknown chart type: pie3d" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown chart type: pie3d")
	}

	expected := "INVALID_CHART_TYPE: unknown chart type: pie3d"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("font face closed")
	err := Wrap(ErrCodeMeasurement, cause, "measure tick label")

	if err.Code != ErrCodeMeasurement {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMeasurement)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidConfig, "test"), ErrCodeInvalidConfig, true},
		{"non-matching code", New(ErrCodeInvalidConfig, "test"), ErrCodeMeasurement, false},
		{"wrapped error", Wrap(ErrCodeInternal, New(ErrCodeInvalidConfig, "inner"), "outer"), ErrCodeInternal, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidConfig, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsConfiguration(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"chart type", New(ErrCodeInvalidChartType, "x"), true},
		{"scale kind", New(ErrCodeInvalidScaleKind, "x"), true},
		{"config", New(ErrCodeInvalidConfig, "x"), true},
		{"format", New(ErrCodeInvalidFormat, "x"), true},
		{"measurement", New(ErrCodeMeasurement, "x"), false},
		{"malformed record", New(ErrCodeMalformedRecord, "x"), false},
		{"plain", errors.New("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfiguration(tt.err); got != tt.want {
				t.Errorf("IsConfiguration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := Wrap(ErrCodeNotFound, errors.New("gone"), "container %s", "abc")
	if GetCode(err) != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeNotFound)
	}
	if UserMessage(err) != "container abc" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode(plain) should be empty")
	}
	if UserMessage(errors.New("plain")) != "plain" {
		t.Error("UserMessage(plain) should be the error string")
	}
}
