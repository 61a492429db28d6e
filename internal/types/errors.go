package types

import (
	"fmt"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// All packages MUST use these constants instead of hardcoded strings.
const (
	// Configuration (catalog files, settings, endpoint tables)
	ErrCodeConfigFileNotFound ErrorCode = "config_file_not_found"
	ErrCodeConfigParse        ErrorCode = "config_parse_failed"
	ErrCodeConfigMissingField ErrorCode = "config_missing_required_field"
	ErrCodeConfigInvalidChore ErrorCode = "config_invalid_chore_entry"
	ErrCodeConfigEnvironment  ErrorCode = "config_environment_invalid"
	ErrCodeConfigEndpoints    ErrorCode = "config_endpoint_table_invalid"

	// Rotation
	ErrCodeRotationEmptyRoster ErrorCode = "rotation_empty_roster"

	// Rendering (staging phase, pre-publish)
	ErrCodeRenderTemplateMissing ErrorCode = "render_template_missing"
	ErrCodeRenderTemplateFailed  ErrorCode = "render_template_failed"

	// Publishing (output replacement)
	ErrCodePublishStaging ErrorCode = "publish_staging_failed"
	ErrCodePublishReplace ErrorCode = "publish_replace_failed"
	ErrCodePublishArchive ErrorCode = "publish_archive_failed"

	// Notification delivery
	ErrCodeNotifyEndpointMissing ErrorCode = "notify_endpoint_missing"
	ErrCodeNotifyDelivery        ErrorCode = "notify_delivery_failed"
	ErrCodeNotifyRejected        ErrorCode = "notify_rejected"
	ErrCodeNotifyPartialFailure  ErrorCode = "notify_partial_failure"

	// Internal
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// Process exit codes per error class. 0 is success and 2 is reserved for
// command-line usage errors raised before any work starts.
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitUsage    = 2
	ExitConfig   = 3
	ExitRotation = 4
	ExitRender   = 5
	ExitPublish  = 6
	ExitNotify   = 7
)

// ExitStatus maps an ErrorCode to its process exit code.
// Used by the CLI layer to translate AppErrors into exit statuses.
// Returns ExitInternal for unrecognized error codes as a safe default.
func (c ErrorCode) ExitStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "config_"):
		return ExitConfig
	case strings.HasPrefix(s, "rotation_"):
		return ExitRotation
	case strings.HasPrefix(s, "render_"):
		return ExitRender
	case strings.HasPrefix(s, "publish_"):
		return ExitPublish
	case strings.HasPrefix(s, "notify_"):
		return ExitNotify
	case strings.HasPrefix(s, "internal_"):
		return ExitInternal
	default:
		return ExitInternal
	}
}

// AppError is the standard application error type used throughout choreworld.
// All domain errors should be expressed as AppError to enable consistent
// error formatting, exit status mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ExitStatus returns the process exit code corresponding to this error's code.
func (e *AppError) ExitStatus() int {
	return e.Code.ExitStatus()
}

// WithDetails returns a copy of the error with the provided details merged in.
// This is useful for adding context without mutating the original error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with the given code, message,
// underlying error, and structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
