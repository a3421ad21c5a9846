package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cast"

	"github.com/openoptions/go-settings-registry/config"
	"github.com/openoptions/go-settings-registry/internal/errors"
	"github.com/openoptions/go-settings-registry/model"
)

func init() {
	// Values are stored as interface{} per section/key; register the
	// canonical value types so gob can round-trip them.
	gob.Register(map[string]interface{}{})
	gob.Register([]string{})
	gob.Register(false)
	gob.Register(int(0))
	gob.Register(float64(0))
	gob.Register("")
}

// Observer receives a setting change after the new value has been validated
// and stored. Observers run synchronously on the writer's goroutine, which
// is how subsystems live-apply changed values.
type Observer func(model.Change)

// ValueStore holds the current value of every defined setting, keyed by
// (section, key). Writes are validated against the schema's typed setting
// definitions: values are coerced to the declared type, numeric values are
// clamped to the declared range, and choice values must be a member of the
// declared choices.
type ValueStore struct {
	mu     sync.RWMutex
	values map[string]map[string]interface{} // section -> key -> value

	defs      map[string]map[string]config.SettingDef
	observers map[string][]Observer // keyed by section; "" observes every section
}

// NewValueStore creates a store seeded with the schema's default values.
func NewValueStore(schema *config.Schema) *ValueStore {
	vs := &ValueStore{
		values:    make(map[string]map[string]interface{}),
		defs:      make(map[string]map[string]config.SettingDef),
		observers: make(map[string][]Observer),
	}
	vs.SetSchema(schema)
	return vs
}

// SetSchema rebuilds the definition lookup from the given schema. Newly
// defined settings are seeded with their defaults, values for settings that
// no longer exist are dropped, and existing values are kept as-is.
func (vs *ValueStore) SetSchema(schema *config.Schema) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	defs := make(map[string]map[string]config.SettingDef)
	for _, def := range schema.Defs() {
		if defs[def.Section] == nil {
			defs[def.Section] = make(map[string]config.SettingDef)
		}
		defs[def.Section][def.Key] = def
	}
	vs.defs = defs

	// Drop values whose definitions are gone.
	for section, keys := range vs.values {
		sectionDefs, ok := defs[section]
		if !ok {
			delete(vs.values, section)
			continue
		}
		for key := range keys {
			if _, ok := sectionDefs[key]; !ok {
				delete(keys, key)
			}
		}
	}

	// Seed defaults for settings that have no value yet.
	for section, sectionDefs := range defs {
		if vs.values[section] == nil {
			vs.values[section] = make(map[string]interface{})
		}
		for key, def := range sectionDefs {
			if _, ok := vs.values[section][key]; !ok {
				if value, err := canonicalize(&def, def.Default); err == nil {
					vs.values[section][key] = value
				}
			}
		}
	}
}

// canonicalize coerces a raw value to the setting's declared type, clamping
// numeric values into [Min, Max] and checking choice membership.
func canonicalize(def *config.SettingDef, raw interface{}) (interface{}, error) {
	switch def.Type {
	case config.TypeBool:
		value, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, errors.NewInvalidValueError(def.Section, def.Key, fmt.Sprintf("%v is not a boolean", raw))
		}
		return value, nil
	case config.TypeInt:
		value, err := cast.ToIntE(raw)
		if err != nil {
			return nil, errors.NewInvalidValueError(def.Section, def.Key, fmt.Sprintf("%v is not an integer", raw))
		}
		if value < int(def.Min) {
			value = int(def.Min)
		}
		if value > int(def.Max) {
			value = int(def.Max)
		}
		return value, nil
	case config.TypeFloat:
		value, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, errors.NewInvalidValueError(def.Section, def.Key, fmt.Sprintf("%v is not a number", raw))
		}
		if value < def.Min {
			value = def.Min
		}
		if value > def.Max {
			value = def.Max
		}
		return value, nil
	case config.TypeString:
		value, err := cast.ToStringE(raw)
		if err != nil {
			return nil, errors.NewInvalidValueError(def.Section, def.Key, fmt.Sprintf("%v is not a string", raw))
		}
		return value, nil
	case config.TypeChoice:
		value, err := cast.ToStringE(raw)
		if err != nil {
			return nil, errors.NewInvalidValueError(def.Section, def.Key, fmt.Sprintf("%v is not a string", raw))
		}
		for _, choice := range def.Choices {
			if choice == value {
				return value, nil
			}
		}
		return nil, errors.NewInvalidValueError(def.Section, def.Key, fmt.Sprintf("'%s' is not one of the allowed choices", value))
	default:
		return nil, errors.NewInvalidValueError(def.Section, def.Key, fmt.Sprintf("unknown setting type '%s'", def.Type))
	}
}

// Set validates and stores a new value for a defined setting, then notifies
// observers if the stored value actually changed.
func (vs *ValueStore) Set(section, key string, raw interface{}) error {
	vs.mu.Lock()

	def, ok := vs.lookupDef(section, key)
	if !ok {
		vs.mu.Unlock()
		return errors.NewSettingNotFoundError(section, key)
	}

	value, err := canonicalize(&def, raw)
	if err != nil {
		vs.mu.Unlock()
		return err
	}

	if vs.values[section] == nil {
		vs.values[section] = make(map[string]interface{})
	}
	if vs.values[section][key] == value {
		vs.mu.Unlock()
		return nil
	}
	vs.values[section][key] = value
	observers := vs.observersFor(section)
	vs.mu.Unlock()

	dispatch(observers, model.Change{Section: section, Key: key, Value: value})
	return nil
}

// Get returns the current value of a defined setting.
func (vs *ValueStore) Get(section, key string) (interface{}, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	if _, ok := vs.lookupDef(section, key); !ok {
		return nil, errors.NewSettingNotFoundError(section, key)
	}
	return vs.values[section][key], nil
}

// GetBool returns the setting value as a bool, or false if it is undefined.
func (vs *ValueStore) GetBool(section, key string) bool {
	value, err := vs.Get(section, key)
	if err != nil {
		return false
	}
	return cast.ToBool(value)
}

// GetInt returns the setting value as an int, or 0 if it is undefined.
func (vs *ValueStore) GetInt(section, key string) int {
	value, err := vs.Get(section, key)
	if err != nil {
		return 0
	}
	return cast.ToInt(value)
}

// GetFloat returns the setting value as a float64, or 0 if it is undefined.
func (vs *ValueStore) GetFloat(section, key string) float64 {
	value, err := vs.Get(section, key)
	if err != nil {
		return 0
	}
	return cast.ToFloat64(value)
}

// GetString returns the setting value as a string, or "" if it is undefined.
func (vs *ValueStore) GetString(section, key string) string {
	value, err := vs.Get(section, key)
	if err != nil {
		return ""
	}
	return cast.ToString(value)
}

// Subscribe registers an observer for one section's changes. Passing an
// empty section subscribes to every section.
func (vs *ValueStore) Subscribe(section string, observer Observer) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.observers[section] = append(vs.observers[section], observer)
}

// ResetSection restores every setting in the section to its default value.
func (vs *ValueStore) ResetSection(section string) error {
	vs.mu.Lock()

	sectionDefs, ok := vs.defs[section]
	if !ok {
		vs.mu.Unlock()
		return errors.NewSettingNotFoundError(section, "*")
	}

	changes := vs.resetSectionLocked(section, sectionDefs)
	observers := vs.observersFor(section)
	vs.mu.Unlock()

	for _, change := range changes {
		dispatch(observers, change)
	}
	return nil
}

// ResetAll restores every setting in the store to its default value.
func (vs *ValueStore) ResetAll() {
	vs.mu.Lock()

	var changes []model.Change
	sections := make([]string, 0, len(vs.defs))
	for section := range vs.defs {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	observersBySection := make(map[string][]Observer, len(sections))
	for _, section := range sections {
		changes = append(changes, vs.resetSectionLocked(section, vs.defs[section])...)
		observersBySection[section] = vs.observersFor(section)
	}
	vs.mu.Unlock()

	for _, change := range changes {
		dispatch(observersBySection[change.Section], change)
	}
}

// resetSectionLocked applies defaults to one section and returns the changes
// made. Caller must hold the write lock.
func (vs *ValueStore) resetSectionLocked(section string, sectionDefs map[string]config.SettingDef) []model.Change {
	var changes []model.Change

	keys := make([]string, 0, len(sectionDefs))
	for key := range sectionDefs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if vs.values[section] == nil {
		vs.values[section] = make(map[string]interface{})
	}
	for _, key := range keys {
		def := sectionDefs[key]
		value, err := canonicalize(&def, def.Default)
		if err != nil {
			continue
		}
		if vs.values[section][key] == value {
			continue
		}
		vs.values[section][key] = value
		changes = append(changes, model.Change{Section: section, Key: key, Value: value})
	}
	return changes
}

// ApplySnapshot replaces current values with those from an externally loaded
// snapshot. Unknown settings are ignored, invalid values are skipped, and
// observers are notified of every value that changed.
func (vs *ValueStore) ApplySnapshot(snapshot map[string]map[string]interface{}) {
	vs.mu.Lock()

	var changes []model.Change
	for section, keys := range snapshot {
		sectionDefs, ok := vs.defs[section]
		if !ok {
			continue
		}
		for key, raw := range keys {
			def, ok := sectionDefs[key]
			if !ok {
				continue
			}
			value, err := canonicalize(&def, raw)
			if err != nil {
				continue
			}
			if vs.values[section][key] == value {
				continue
			}
			vs.values[section][key] = value
			changes = append(changes, model.Change{Section: section, Key: key, Value: value})
		}
	}

	observersBySection := make(map[string][]Observer)
	for _, change := range changes {
		if _, ok := observersBySection[change.Section]; !ok {
			observersBySection[change.Section] = vs.observersFor(change.Section)
		}
	}
	vs.mu.Unlock()

	for _, change := range changes {
		dispatch(observersBySection[change.Section], change)
	}
}

// Snapshot returns a deep copy of all current values, safe to persist or
// serve while the store keeps mutating.
func (vs *ValueStore) Snapshot() map[string]map[string]interface{} {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	snapshot := make(map[string]map[string]interface{}, len(vs.values))
	for section, keys := range vs.values {
		sectionCopy := make(map[string]interface{}, len(keys))
		for key, value := range keys {
			sectionCopy[key] = value
		}
		snapshot[section] = sectionCopy
	}
	return snapshot
}

// Sections returns the defined section names in sorted order.
func (vs *ValueStore) Sections() []string {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	sections := make([]string, 0, len(vs.defs))
	for section := range vs.defs {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	return sections
}

// lookupDef finds a setting definition. Caller must hold at least the read lock.
func (vs *ValueStore) lookupDef(section, key string) (config.SettingDef, bool) {
	sectionDefs, ok := vs.defs[section]
	if !ok {
		return config.SettingDef{}, false
	}
	def, ok := sectionDefs[key]
	return def, ok
}

// observersFor collects the observers interested in a section, including the
// catch-all subscribers. Caller must hold at least the read lock.
func (vs *ValueStore) observersFor(section string) []Observer {
	observers := make([]Observer, 0, len(vs.observers[section])+len(vs.observers[""]))
	observers = append(observers, vs.observers[section]...)
	observers = append(observers, vs.observers[""]...)
	return observers
}

func dispatch(observers []Observer, change model.Change) {
	for _, observer := range observers {
		observer(change)
	}
}

// gobValueStoreData is a helper struct for gob encoding/decoding the store's
// persistent state. It excludes the mutex, the schema lookup, and observers.
type gobValueStoreData struct {
	Values map[string]map[string]interface{}
}

// GobEncode implements the gob.GobEncoder interface for ValueStore.
func (vs *ValueStore) GobEncode() ([]byte, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(gobValueStoreData{Values: vs.values}); err != nil {
		return nil, fmt.Errorf("failed to gob encode value store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for ValueStore. Decoded
// values are filtered through the current schema: unknown keys are dropped
// and invalid values fall back to their defaults. No observers fire; decoding
// happens before subscribers exist.
func (vs *ValueStore) GobDecode(data []byte) error {
	decoded := gobValueStoreData{}
	decoder := gob.NewDecoder(bytes.NewBuffer(data))
	if err := decoder.Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode value store data: %w", err)
	}

	vs.mu.Lock()
	defer vs.mu.Unlock()

	for section, keys := range decoded.Values {
		sectionDefs, ok := vs.defs[section]
		if !ok {
			continue
		}
		for key, raw := range keys {
			def, ok := sectionDefs[key]
			if !ok {
				continue
			}
			value, err := canonicalize(&def, raw)
			if err != nil {
				continue
			}
			if vs.values[section] == nil {
				vs.values[section] = make(map[string]interface{})
			}
			vs.values[section][key] = value
		}
	}
	return nil
}
