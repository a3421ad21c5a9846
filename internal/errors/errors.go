package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrPageNotFound is returned when a settings page is not found
	ErrPageNotFound = errors.New("page not found")

	// ErrPageAlreadyExists is returned when registering a page whose name is taken
	ErrPageAlreadyExists = errors.New("page already exists")

	// ErrSettingNotFound is returned when a setting key has no definition
	ErrSettingNotFound = errors.New("setting not found")

	// ErrActionNotFound is returned when an input action is not in the bindings table
	ErrActionNotFound = errors.New("action not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidValue is returned when a value fails schema validation
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// PageNotFoundError represents a page not found error with context
type PageNotFoundError struct {
	PageName string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page named '%s' not found", e.PageName)
}

func (e *PageNotFoundError) Is(target error) bool {
	return target == ErrPageNotFound
}

// NewPageNotFoundError creates a new PageNotFoundError
func NewPageNotFoundError(pageName string) *PageNotFoundError {
	return &PageNotFoundError{PageName: pageName}
}

// PageAlreadyExistsError represents a page already exists error with context
type PageAlreadyExistsError struct {
	PageName string
}

func (e *PageAlreadyExistsError) Error() string {
	return fmt.Sprintf("page named '%s' already exists", e.PageName)
}

func (e *PageAlreadyExistsError) Is(target error) bool {
	return target == ErrPageAlreadyExists
}

// NewPageAlreadyExistsError creates a new PageAlreadyExistsError
func NewPageAlreadyExistsError(pageName string) *PageAlreadyExistsError {
	return &PageAlreadyExistsError{PageName: pageName}
}

// SettingNotFoundError represents a setting not found error with context
type SettingNotFoundError struct {
	Section string
	Key     string
}

func (e *SettingNotFoundError) Error() string {
	return fmt.Sprintf("setting '%s.%s' is not defined in the schema", e.Section, e.Key)
}

func (e *SettingNotFoundError) Is(target error) bool {
	return target == ErrSettingNotFound
}

// NewSettingNotFoundError creates a new SettingNotFoundError
func NewSettingNotFoundError(section, key string) *SettingNotFoundError {
	return &SettingNotFoundError{Section: section, Key: key}
}

// ActionNotFoundError represents an unknown input action error with context
type ActionNotFoundError struct {
	Device string
	Action string
}

func (e *ActionNotFoundError) Error() string {
	return fmt.Sprintf("action '%s' is not defined for device '%s'", e.Action, e.Device)
}

func (e *ActionNotFoundError) Is(target error) bool {
	return target == ErrActionNotFound
}

// NewActionNotFoundError creates a new ActionNotFoundError
func NewActionNotFoundError(device, action string) *ActionNotFoundError {
	return &ActionNotFoundError{Device: device, Action: action}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// InvalidValueError represents a value that failed schema validation
type InvalidValueError struct {
	Section string
	Key     string
	Reason  string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for setting '%s.%s': %s", e.Section, e.Key, e.Reason)
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// NewInvalidValueError creates a new InvalidValueError
func NewInvalidValueError(section, key, reason string) *InvalidValueError {
	return &InvalidValueError{Section: section, Key: key, Reason: reason}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
