// Package display provides pure helpers for resolution and window-mode
// settings: parsing user-facing resolution strings, aspect-ratio labels,
// and the ordering used for resolution lists.
package display

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Resolution is a display size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ParseResolution parses strings like "1920 x 1080" or
// "2560 x 1440 (16 : 9)" into a Resolution. Anything after the first two
// numbers is ignored.
func ParseResolution(s string) (Resolution, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if len(fields) < 2 {
		return Resolution{}, fmt.Errorf("resolution %q does not contain two dimensions", s)
	}

	width, err := strconv.Atoi(fields[0])
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid width in resolution %q: %w", s, err)
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid height in resolution %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return Resolution{}, fmt.Errorf("resolution %q has non-positive dimensions", s)
	}
	return Resolution{Width: width, Height: height}, nil
}

// String renders the resolution the way the settings UI shows it, including
// the aspect-ratio label when one exists.
func (r Resolution) String() string {
	aspect := r.Aspect()
	if aspect == "" {
		return fmt.Sprintf("%d x %d", r.Width, r.Height)
	}
	return fmt.Sprintf("%d x %d (%s)", r.Width, r.Height, aspect)
}

// Aspect returns the reduced aspect ratio as a label like "16 : 9". The 8:5
// family is conventionally called 16:10. Zero or negative dimensions yield
// an empty string.
func (r Resolution) Aspect() string {
	if r.Width <= 0 || r.Height <= 0 {
		return ""
	}
	divisor := gcd(r.Width, r.Height)
	x := r.Width / divisor
	y := r.Height / divisor
	if x == 8 && y == 5 {
		return "16 : 10"
	}
	return fmt.Sprintf("%d : %d", x, y)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// SortResolutions orders resolutions largest first: descending width, then
// descending height.
func SortResolutions(resolutions []Resolution) {
	sort.Slice(resolutions, func(i, j int) bool {
		if resolutions[i].Width == resolutions[j].Width {
			return resolutions[i].Height > resolutions[j].Height
		}
		return resolutions[i].Width > resolutions[j].Width
	})
}

// StandardResolutions returns the built-in resolution catalog, largest
// first. Callers that know the actual display modes should use those
// instead; this list backs the API when no display is attached.
func StandardResolutions() []Resolution {
	resolutions := []Resolution{
		{3840, 2160},
		{2560, 1440},
		{2560, 1600},
		{1920, 1080},
		{1920, 1200},
		{1680, 1050},
		{1600, 900},
		{1440, 900},
		{1366, 768},
		{1280, 1024},
		{1280, 800},
		{1280, 720},
		{1024, 768},
	}
	SortResolutions(resolutions)
	return resolutions
}

// WindowMode is how the window occupies the display.
type WindowMode string

const (
	WindowModeFullscreen         WindowMode = "fullscreen"
	WindowModeWindowedFullscreen WindowMode = "windowed fullscreen"
	WindowModeWindowed           WindowMode = "windowed"
)

// WindowModes returns all window modes in presentation order.
func WindowModes() []WindowMode {
	return []WindowMode{WindowModeFullscreen, WindowModeWindowedFullscreen, WindowModeWindowed}
}

// ParseWindowMode validates a window-mode string.
func ParseWindowMode(s string) (WindowMode, error) {
	for _, mode := range WindowModes() {
		if string(mode) == s {
			return mode, nil
		}
	}
	return "", fmt.Errorf("unknown window mode %q", s)
}
