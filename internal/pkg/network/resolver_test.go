package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		msisdn  string
		carrier string
		ok      bool
	}{
		{"Vodacom 2782", "27821231232", "VOD", true},
		{"Unmapped 2783", "27831234567", "", false},
		{"MTN five-digit 27710", "27710555123", "MTN", true},
		{"Vodacom five-digit 27711", "27711555123", "VOD", true},
		{"Cell C 2784", "27845550000", "CELLC", true},
		{"8ta 27813", "27813555000", "8TA", true},
		{"Unmapped prefix", "27859991111", "", false},
		{"Foreign number", "4915791234567", "", false},
		{"Too short", "278", "", false},
		{"Empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carrier, ok := Resolve(tt.msisdn)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.carrier, carrier)
		})
	}
}

// The 27811-27814 block belongs to 8ta even though 2781 has no entry of
// its own; a number outside that block must not resolve.
func TestResolveEightTaBlockEdges(t *testing.T) {
	_, ok := Resolve("27815000000")
	assert.False(t, ok)

	carrier, ok := Resolve("27811000000")
	assert.True(t, ok)
	assert.Equal(t, "8TA", carrier)
}
