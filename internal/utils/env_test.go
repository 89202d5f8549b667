package utils

import (
	"os"
	"testing"
)

func TestSafeEnv(t *testing.T) {
	const key = "_DIAGNOS_TEST_SAFEENV"
	os.Unsetenv(key)
	if got := SafeEnv(key, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	os.Setenv(key, "value")
	if got := SafeEnv(key, "fallback"); got != "value" {
		t.Fatalf("expected 'value', got %q", got)
	}
}

func TestEnvInt(t *testing.T) {
	const key = "_DIAGNOS_TEST_ENVINT"
	os.Unsetenv(key)
	if got := EnvInt(key, 42); got != 42 {
		t.Fatalf("expected fallback 42, got %d", got)
	}
	os.Setenv(key, "7")
	if got := EnvInt(key, 42); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	os.Setenv(key, "not-a-number")
	if got := EnvInt(key, 42); got != 42 {
		t.Fatalf("expected fallback for junk, got %d", got)
	}
}
