// Package bindings maintains the input-action binding tables for keyboard
// and controller. It is a data layer only: reading devices and dispatching
// input events is somebody else's job.
package bindings

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/openoptions/go-settings-registry/internal/errors"
)

// Device identifies which input device a binding table belongs to.
type Device string

const (
	DeviceKeyboard   Device = "keyboard"
	DeviceController Device = "controller"
)

// Devices returns the supported devices in presentation order.
func Devices() []Device {
	return []Device{DeviceKeyboard, DeviceController}
}

// ParseDevice validates a device name.
func ParseDevice(s string) (Device, error) {
	for _, device := range Devices() {
		if string(device) == s {
			return device, nil
		}
	}
	return "", fmt.Errorf("unknown device %q", s)
}

// Binding pairs an action with the input currently assigned to it. An empty
// Input means the action is unbound.
type Binding struct {
	Action string `json:"action"`
	Input  string `json:"input"`
}

// Table holds the current bindings per device. The default bindings double
// as the action list and its display order.
type Table struct {
	mu       sync.RWMutex
	defaults map[Device][]Binding
	current  map[Device]map[string]string // device -> action -> input
}

// NewTable creates a table seeded with the given defaults.
func NewTable(defaults map[Device][]Binding) *Table {
	t := &Table{
		defaults: defaults,
		current:  make(map[Device]map[string]string, len(defaults)),
	}
	for device := range defaults {
		t.resetLocked(device)
	}
	return t
}

// DefaultTable returns the built-in action set with its stock bindings.
func DefaultTable() *Table {
	return NewTable(map[Device][]Binding{
		DeviceKeyboard: {
			{Action: "move forward", Input: "w"},
			{Action: "move backward", Input: "s"},
			{Action: "move left", Input: "a"},
			{Action: "move right", Input: "d"},
			{Action: "jump", Input: "space"},
			{Action: "sneak", Input: "left ctrl"},
			{Action: "run", Input: "left shift"},
			{Action: "activate", Input: "e"},
			{Action: "inventory", Input: "tab"},
			{Action: "journal", Input: "j"},
			{Action: "quick save", Input: "f5"},
			{Action: "quick load", Input: "f9"},
			{Action: "screenshot", Input: "f12"},
		},
		DeviceController: {
			{Action: "jump", Input: "button a"},
			{Action: "activate", Input: "button x"},
			{Action: "sneak", Input: "left stick click"},
			{Action: "run", Input: "left trigger"},
			{Action: "inventory", Input: "button y"},
			{Action: "journal", Input: "back"},
		},
	})
}

// Rebind assigns an input to an action. If the input is already assigned to
// a different action on the same device, that action becomes unbound, so an
// input never triggers two actions.
func (t *Table) Rebind(device Device, action, input string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	actions, ok := t.current[device]
	if !ok {
		return fmt.Errorf("unknown device %q", device)
	}
	if _, ok := actions[action]; !ok {
		return errors.NewActionNotFoundError(string(device), action)
	}

	if input != "" {
		for other, bound := range actions {
			if other != action && bound == input {
				actions[other] = ""
			}
		}
	}
	actions[action] = input
	return nil
}

// Lookup returns the input currently assigned to an action.
func (t *Table) Lookup(device Device, action string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	actions, ok := t.current[device]
	if !ok {
		return "", fmt.Errorf("unknown device %q", device)
	}
	input, ok := actions[action]
	if !ok {
		return "", errors.NewActionNotFoundError(string(device), action)
	}
	return input, nil
}

// Bindings returns the device's bindings in their stable display order.
func (t *Table) Bindings(device Device) ([]Binding, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	defaults, ok := t.defaults[device]
	if !ok {
		return nil, fmt.Errorf("unknown device %q", device)
	}

	result := make([]Binding, len(defaults))
	for i, def := range defaults {
		result[i] = Binding{Action: def.Action, Input: t.current[device][def.Action]}
	}
	return result, nil
}

// ResetDefaults restores the stock bindings for one device.
func (t *Table) ResetDefaults(device Device) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.defaults[device]; !ok {
		return fmt.Errorf("unknown device %q", device)
	}
	t.resetLocked(device)
	return nil
}

// resetLocked rebuilds one device's current bindings from its defaults.
// Caller must hold the write lock (or own the table exclusively).
func (t *Table) resetLocked(device Device) {
	actions := make(map[string]string, len(t.defaults[device]))
	for _, def := range t.defaults[device] {
		actions[def.Action] = def.Input
	}
	t.current[device] = actions
}

// gobTableData is a helper struct for gob encoding/decoding the table's
// persistent state. Defaults travel with the binary, only current
// assignments are persisted.
type gobTableData struct {
	Current map[Device]map[string]string
}

// GobEncode implements the gob.GobEncoder interface for Table.
func (t *Table) GobEncode() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(gobTableData{Current: t.current}); err != nil {
		return nil, fmt.Errorf("failed to gob encode bindings table: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for Table. Persisted
// assignments are applied on top of the defaults; actions unknown to this
// build are dropped.
func (t *Table) GobDecode(data []byte) error {
	decoded := gobTableData{}
	decoder := gob.NewDecoder(bytes.NewBuffer(data))
	if err := decoder.Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode bindings table: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for device, actions := range decoded.Current {
		current, ok := t.current[device]
		if !ok {
			continue
		}
		for action, input := range actions {
			if _, ok := current[action]; ok {
				current[action] = input
			}
		}
	}
	return nil
}
