package xerrors

import "errors"

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidInput   = errors.New("invalid input provided")
	ErrInternalServer = errors.New("internal server error")
	ErrNotFound       = errors.New("not found")
)

// Notifications
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidTransition    = errors.New("invalid notification state transition")
	ErrRetryExhausted       = errors.New("max retries reached for notification")
	ErrStaleAggregate       = errors.New("notification was modified concurrently")
	ErrInvalidChannel       = errors.New("invalid channel")
)

// Templates
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateInactive = errors.New("template is not active")
)

// Preferences
var (
	ErrPreferenceNotFound = errors.New("preferences not found")
)
