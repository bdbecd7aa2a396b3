package mods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.2.3.4", "1.2.3.4"},
		{"1.0", "1.0.0.0"},
		{"0.0.0.0", "0.0.0.0"},
		{"36028797018963968", "1.0.0.0"},
		{"", "0.0.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseVersion(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestParseVersionErrors(t *testing.T) {
	for _, in := range []string{"1.x", "1.2.3.4.5", "-1.0", "abc", "512.0", "1.256.0.0", "1.0.65536.0", "1.0.0.2147483648"} {
		_, err := ParseVersion(in)
		assert.Error(t, err, in)
	}
}

func TestVersionOrdering(t *testing.T) {
	assert.Less(t, NewVersion(1, 9, 0, 0), NewVersion(2, 0, 0, 0))
	assert.Less(t, NewVersion(1, 0, 0, 9), NewVersion(1, 0, 1, 0))

	high, err := ParseVersion("300.0.0.0")
	require.NoError(t, err)
	assert.Equal(t, "300.0.0.0", high.String())
	assert.True(t, NewVersion(1, 0, 0, 0).Less(high))
	assert.Equal(t, 1, high.Compare(NewVersion(255, 255, 0, 0)))
	assert.Equal(t, 0, high.Compare(NewVersion(300, 0, 0, 0)))
	assert.Equal(t, "511.255.65535.2147483647", NewVersion(511, 255, 65535, 2147483647).String())
}

func TestVersionText(t *testing.T) {
	var v Version
	require.NoError(t, v.UnmarshalText([]byte("4.1.1.0")))
	b, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "4.1.1.0", string(b))
}
