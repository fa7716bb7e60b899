// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// UniqueEmail returns an address that will not collide across test runs
// sharing one database.
func UniqueEmail(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12] + "@example.com"
}
