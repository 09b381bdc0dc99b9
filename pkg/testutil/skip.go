// Package testutil holds helpers shared across test packages.
package testutil

import (
	"os"
	"testing"
)

// SkipIfShort skips tests that need external infrastructure when running
// with -short.
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// RequireIntegration skips unless integration tests are explicitly enabled
// in CI via INTEGRATION_TESTS=1. Local runs are only gated by -short.
func RequireIntegration(t *testing.T) {
	t.Helper()
	SkipIfShort(t)
	if os.Getenv("CI") != "" && os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("skipping integration test (set INTEGRATION_TESTS=1 to run)")
	}
}
