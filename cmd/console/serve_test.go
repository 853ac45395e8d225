//go:build unit

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginDisabledNotice(t *testing.T) {
	testCases := []struct {
		role string
		want []string
	}{
		{"viewer", []string{`"viewer"`, "read-only", "403", "auth.anonymous_role", "oidc.issuer_url"}},
		{"", []string{"denied", "auth.anonymous_role", "oidc.issuer_url"}},
		{"admin", []string{`"admin"`, "without signing in"}},
	}

	for _, tc := range testCases {
		t.Run("role "+tc.role, func(t *testing.T) {
			got := loginDisabledNotice(tc.role)
			for _, w := range tc.want {
				assert.Contains(t, got, w)
			}
		})
	}
}
