// Package api provides the HTTP surface of the settings registry.
package api

import (
	"strings"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidatePageName validates a page name parameter
func ValidatePageName(pageName string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if pageName == "" {
		result.AddError("pageName", "Page name is required")
		return result
	}

	if strings.TrimSpace(pageName) != pageName {
		result.AddError("pageName", "Page name cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateSettingPath validates the section/key pair identifying a setting
func ValidateSettingPath(section, key string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(section) == "" {
		result.AddError("section", "Section is required")
	}
	if strings.TrimSpace(key) == "" {
		result.AddError("key", "Setting key is required")
	}

	return result
}

// ValidateSection validates a section name on its own
func ValidateSection(section string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(section) == "" {
		result.AddError("section", "Section is required")
	}

	return result
}

// ValidateAction validates an input action name
func ValidateAction(action string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(action) == "" {
		result.AddError("action", "Action is required")
	}

	return result
}
