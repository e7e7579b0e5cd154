package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "agencyreg/pkg/domain-errors"
)

// TestParsePrincipal_Invariants validates the parsing invariant:
// "principals are non-empty, bounded, printable identities"
func TestParsePrincipal_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePrincipal("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		p, err := ParsePrincipal("  ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM \n")
		require.NoError(t, err)
		assert.Equal(t, Principal("ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"), p)
	})

	t.Run("accepts address-like value", func(t *testing.T) {
		p, err := ParsePrincipal("ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG")
		require.NoError(t, err)
		assert.Equal(t, "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG", p.String())
		assert.False(t, p.IsZero())
	})
}

// TestParsePrincipal_TrustBoundary validates rejection of hostile input.
func TestParsePrincipal_TrustBoundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Whitespace only", "   ", true},
		{"Embedded space", "ST1 PQ", true},
		{"Null byte injection", "ST1PQ\x00admin", true},
		{"Unicode zero-width space", "ST1PQ\u200Badmin", true},
		{"Invalid UTF-8", string([]byte{0xff, 0xfe}), true},
		{"Oversized input", strings.Repeat("S", MaxPrincipalLength+1), true},
		{"Max length", strings.Repeat("S", MaxPrincipalLength), false},
		{"Contract principal", "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM.agency-verification", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrincipal(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMustPrincipal(t *testing.T) {
	assert.Equal(t, Principal("A"), MustPrincipal("A"))
	assert.Panics(t, func() { MustPrincipal("") })
}

func TestPrincipalIsComparable(t *testing.T) {
	seen := map[Principal]int{}
	seen[MustPrincipal("X")]++
	seen[MustPrincipal(" X ")]++
	assert.Equal(t, 2, seen[Principal("X")])
	assert.True(t, Principal("").IsZero())
}
