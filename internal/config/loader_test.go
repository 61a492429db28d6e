package config

import (
	"errors"
	"strings"
	"testing"
)

// TestLoadInvalidTimezone verifies that an unknown timezone fails validation.
func TestLoadInvalidTimezone(t *testing.T) {
	clearChoreworldEnv(t)
	t.Setenv("CHOREWORLD_TZ", "Mars/Olympus_Mons")

	_, err := Load()
	assertConfigError(t, err, ErrValidation)
}

// TestLoadInvalidEpochFormat verifies that epochs must be YYYY-MM-DD dates.
func TestLoadInvalidEpochFormat(t *testing.T) {
	clearChoreworldEnv(t)
	t.Setenv("CHOREWORLD_EPOCH", "11 April 2021")

	_, err := Load()
	assertConfigError(t, err, ErrValidation)
}

// TestLoadInvalidBinsEpochFormat verifies the bins epoch gets the same check.
func TestLoadInvalidBinsEpochFormat(t *testing.T) {
	clearChoreworldEnv(t)
	t.Setenv("CHOREWORLD_BINS_EPOCH", "2023-2-15T00:00")

	_, err := Load()
	assertConfigError(t, err, ErrValidation)
}

// TestLoadInvalidEnvironment verifies the APP_ENV oneof constraint.
func TestLoadInvalidEnvironment(t *testing.T) {
	clearChoreworldEnv(t)
	t.Setenv("APP_ENV", "staging2")

	_, err := Load()
	assertConfigError(t, err, ErrValidation)
}

// TestLoadInvalidTimeout verifies that a malformed duration is a parsing error,
// not a validation error.
func TestLoadInvalidTimeout(t *testing.T) {
	clearChoreworldEnv(t)
	t.Setenv("NTFY_TIMEOUT", "ten seconds")

	_, err := Load()
	assertConfigError(t, err, ErrParsing)
}

// TestLoadConcurrencyBounds verifies the min/max constraints on the
// notification worker pool size.
func TestLoadConcurrencyBounds(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"zero workers", "0", true},
		{"one worker", "1", false},
		{"upper bound", "32", false},
		{"over upper bound", "33", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearChoreworldEnv(t)
			t.Setenv("NTFY_MAX_CONCURRENCY", tt.value)

			_, err := Load()
			if tt.wantErr {
				assertConfigError(t, err, ErrValidation)
			} else if err != nil {
				t.Errorf("Load returned unexpected error: %v", err)
			}
		})
	}
}

// TestLoadInvalidHost verifies the ntfy host must be a URL.
func TestLoadInvalidHost(t *testing.T) {
	clearChoreworldEnv(t)
	t.Setenv("NTFY_HOST", "not a url")

	_, err := Load()
	assertConfigError(t, err, ErrValidation)
}

// TestConfigErrorFormat verifies the diagnostic error message format.
func TestConfigErrorFormat(t *testing.T) {
	underlying := errors.New("boom")
	err := &ConfigError{Type: ErrParsing, Message: "failed to parse", Err: underlying}

	msg := err.Error()
	if !strings.Contains(msg, "PARSING_FAILED") || !strings.Contains(msg, "boom") {
		t.Errorf("Error() = %q, want type and underlying error included", msg)
	}

	bare := &ConfigError{Type: ErrValidation, Message: "invalid"}
	if got := bare.Error(); got != "[VALIDATION_FAILED] invalid" {
		t.Errorf("Error() = %q, want %q", got, "[VALIDATION_FAILED] invalid")
	}
}

// TestConfigErrorUnwrap verifies errors.Is works through ConfigError.
func TestConfigErrorUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	err := &ConfigError{Type: ErrParsing, Message: "failed", Err: underlying}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find the underlying error")
	}
}

// assertConfigError fails the test unless err is a *ConfigError of the
// expected type.
func assertConfigError(t *testing.T, err error, wantType ConfigErrorType) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if cfgErr.Type != wantType {
		t.Errorf("ConfigError.Type = %q, want %q", cfgErr.Type, wantType)
	}
}
