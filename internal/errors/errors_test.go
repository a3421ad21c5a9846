package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"page not found", NewPageNotFoundError("video"), ErrPageNotFound},
		{"page already exists", NewPageAlreadyExistsError("video"), ErrPageAlreadyExists},
		{"setting not found", NewSettingNotFoundError("video", "vsync"), ErrSettingNotFound},
		{"action not found", NewActionNotFoundError("keyboard", "jump"), ErrActionNotFound},
		{"job not found", NewJobNotFoundError("abc-123"), ErrJobNotFound},
		{"invalid value", NewInvalidValueError("video", "gamma", "not a number"), ErrInvalidValue},
		{"validation error", NewValidationError("pageName", "required"), ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}
}

func TestTypedErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading registry: %w", NewSettingNotFoundError("sound", "master volume"))
	if !errors.Is(wrapped, ErrSettingNotFound) {
		t.Error("Wrapped SettingNotFoundError no longer matches ErrSettingNotFound")
	}

	var settingErr *SettingNotFoundError
	if !errors.As(wrapped, &settingErr) {
		t.Fatal("errors.As failed to recover *SettingNotFoundError")
	}
	if settingErr.Section != "sound" || settingErr.Key != "master volume" {
		t.Errorf("Recovered error lost context: %+v", settingErr)
	}
}

func TestErrorMessagesCarryContext(t *testing.T) {
	err := NewInvalidValueError("video", "gamma", "value 9.5 is above the maximum 3")
	want := "invalid value for setting 'video.gamma': value 9.5 is above the maximum 3"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	plain := NewValidationError("", "body must be an object")
	if plain.Error() != "validation error: body must be an object" {
		t.Errorf("Unexpected message: %q", plain.Error())
	}
}
