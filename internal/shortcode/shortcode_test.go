package shortcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomGeneratorLength(t *testing.T) {
	gen := NewRandomGenerator()

	for _, length := range []int{6, 7, 8, 10} {
		code, err := gen.Generate(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
		for _, c := range code {
			assert.True(t, isAlphanumeric(c), "unexpected character %q in %q", c, code)
		}
	}
}

func TestRandomGeneratorDefaultLength(t *testing.T) {
	gen := NewRandomGenerator()

	code, err := gen.Generate(0)
	require.NoError(t, err)
	assert.Len(t, code, DefaultLength)
}

func TestRandomGeneratorUniqueness(t *testing.T) {
	gen := NewRandomGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := gen.Generate(DefaultLength)
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	// 100 draws from a 62^6 space colliding would mean a broken source.
	assert.Len(t, seen, 100)
}

func TestValidateCustom(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{name: "valid short", code: "abc", want: nil},
		{name: "valid mixed", code: "MyLink42", want: nil},
		{name: "valid max length", code: "abcdefghij", want: nil},
		{name: "too short", code: "ab", want: ErrInvalidCode},
		{name: "too long", code: "abcdefghijk", want: ErrInvalidCode},
		{name: "hyphen rejected", code: "my-link", want: ErrInvalidCode},
		{name: "space rejected", code: "my link", want: ErrInvalidCode},
		{name: "reserved api", code: "api", want: ErrReservedCode},
		{name: "reserved metrics", code: "metrics", want: ErrReservedCode},
		{name: "reserved health", code: "health", want: ErrReservedCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCustom(tt.code)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestReserved(t *testing.T) {
	assert.True(t, Reserved("admin"))
	assert.False(t, Reserved("admin2"))
}
