package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid numeric", "12345", false},
		{"valid with dash", "kube-system/coredns", false},
		{"valid reserved", "reserved:world", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"leading space", " foo", true},
		{"trailing space", "foo ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("service", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTopology) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidTopology)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		port    int
		wantErr bool
	}{
		{0, false},
		{80, false},
		{65535, false},
		{-1, true},
		{65536, true},
	}

	for _, tt := range tests {
		err := ValidatePort(tt.port)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePort(%d) error = %v, wantErr %v", tt.port, err, tt.wantErr)
		}
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("gap", 0); err != nil {
		t.Errorf("ValidateNonNegative(0) error = %v", err)
	}
	err := ValidateNonNegative("gap", -1)
	if !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("ValidateNonNegative(-1) = %v, want INVALID_CONFIG", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := ValidateNonNegative("epsilon", v); !Is(err, ErrCodeInvalidConfig) {
			t.Errorf("ValidateNonNegative(%g) = %v, want INVALID_CONFIG", v, err)
		}
	}
}
