package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "example.com", want: "example.com"},
		{in: "Example.COM:8080", want: "example.com"},
		{in: "[::1]:8080", want: "[::1]"},
		{in: "[::1]", want: "[::1]"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, normalizeHost(tt.in))
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	t.Parallel()

	require.Equal(t, "api.example.com", normalizeDomain("https://API.example.com/"))
	require.Equal(t, "{account}.example.com", normalizeDomain("{account}.example.com"))
	require.Equal(t, "admin.local", normalizeDomain("admin.local:8443"))
}
