package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 3.14 ", 3.14, true},
		{"-0.5", -0.5, true},
		{"1,234.56", 1234.56, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"$5.00", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "Yes", "y", " y "} {
		v, ok := ParseBool(s)
		assert.True(t, ok, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"false", "No", "n"} {
		v, ok := ParseBool(s)
		assert.True(t, ok, s)
		assert.False(t, v, s)
	}
	for _, s := range []string{"1", "0", "maybe", ""} {
		_, ok := ParseBool(s)
		assert.False(t, ok, s)
	}
}

func TestIsBlank(t *testing.T) {
	for _, s := range []string{"", "  ", "NULL", "na", "N/A", "NaN", "none"} {
		assert.True(t, IsBlank(s), s)
	}
	for _, s := range []string{"0", "x", "nil?"} {
		assert.False(t, IsBlank(s), s)
	}
}
