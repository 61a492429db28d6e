// Package config defines the global configuration structure for choreworld.
// Configuration is loaded once at process start and is immutable thereafter.
// It follows 12-Factor App principles by strictly separating code from
// configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> Struct Defaults (Lowest)
//
// Any invalid value causes the command to exit immediately on startup
// (fail fast).
package config

import (
	"time"
)

// Config is the top-level configuration struct for choreworld. It is
// populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Domain Configurations
	Rotation RotationConfig
	Site     SiteConfig
	Ntfy     NtfyConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// RotationConfig holds the calendar parameters the weekly rotation is
// computed from. Epochs are civil dates interpreted in Timezone.
type RotationConfig struct {
	// Timezone is the single zone all rotation math happens in.
	Timezone string `envconfig:"CHOREWORLD_TZ" default:"Pacific/Auckland" validate:"required,timezone"`

	// Epoch is the Sunday the rotation counts weeks from.
	Epoch string `envconfig:"CHOREWORLD_EPOCH" default:"2021-04-11" validate:"required,datetime=2006-01-02"`

	// BinsEpoch anchors the kerbside bin alternation. It is independent of
	// Epoch: on this date the green and yellow bins went out together.
	BinsEpoch string `envconfig:"CHOREWORLD_BINS_EPOCH" default:"2023-02-15" validate:"required,datetime=2006-01-02"`
}

// SiteConfig holds the inputs and artifacts of the static site build.
type SiteConfig struct {
	// ConfigDir is the directory holding the per-page chore YAML files.
	ConfigDir string `envconfig:"CHOREWORLD_CONFIG_DIR" default:"configs"`

	// StaticDirs are copied verbatim into the published tree, each under
	// its own base name.
	StaticDirs []string `envconfig:"CHOREWORLD_STATIC_DIRS" default:"static,assets"`

	// Domain is written to the CNAME file at the published root.
	Domain string `envconfig:"CHOREWORLD_DOMAIN" default:"chore.world" validate:"required,fqdn"`

	// ArchivePrevious tars the live output next to it before replacement.
	ArchivePrevious bool `envconfig:"CHOREWORLD_ARCHIVE_PREVIOUS" default:"false"`
}

// NtfyConfig holds settings for notification delivery.
type NtfyConfig struct {
	// Host is the base URL new per-person endpoints are minted under.
	Host           string        `envconfig:"NTFY_HOST" default:"https://ntfy.sh" validate:"required,url"`
	Timeout        time.Duration `envconfig:"NTFY_TIMEOUT" default:"10s"`
	MaxConcurrency int           `envconfig:"NTFY_MAX_CONCURRENCY" default:"4" validate:"min=1,max=32"`
	UserAgent      string        `envconfig:"NTFY_USER_AGENT" default:"choreworld/1.0"`
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
