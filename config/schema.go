// Package config provides configuration structures for the settings registry.
// It defines the typed setting schema, page definitions, and the server
// configuration loaded from the environment.
package config

import (
	"strings"

	"github.com/spf13/cast"
)

// SettingType enumerates the value types a setting can hold.
type SettingType string

const (
	TypeBool   SettingType = "bool"
	TypeInt    SettingType = "int"
	TypeFloat  SettingType = "float"
	TypeString SettingType = "string"
	TypeChoice SettingType = "choice" // one of a fixed list of strings
)

// SettingDef is the typed definition of a single setting. Every control that
// edits a setting carries one of these records explicitly instead of loose
// string tags, so the value store can validate writes against it.
type SettingDef struct {
	Key     string      `json:"key"`               // Setting name, unique within its section (e.g., "vsync")
	Section string      `json:"section"`           // Section the value is stored under (e.g., "video")
	Label   string      `json:"label"`             // Human-readable name shown in result lists
	Type    SettingType `json:"type"`              // Value type, drives coercion and validation
	Default interface{} `json:"default"`           // Value applied on reset; must satisfy Type
	Min     float64     `json:"min,omitempty"`     // Lower bound for int/float settings
	Max     float64     `json:"max,omitempty"`     // Upper bound for int/float settings
	Step    float64     `json:"step,omitempty"`    // Suggested increment for slider-style consumers
	Choices []string    `json:"choices,omitempty"` // Allowed values for choice settings
}

// numeric reports whether the setting holds a ranged numeric value.
func (def *SettingDef) numeric() bool {
	return def.Type == TypeInt || def.Type == TypeFloat
}

// PageDef is a named group of settings that shows up as one entry in the
// filterable page list. Label and SearchHints are what the text filter
// matches against.
type PageDef struct {
	Name        string       `json:"name"`         // Unique page identifier
	Label       string       `json:"label"`        // Display label, primary search target
	SearchHints string       `json:"search_hints"` // Auxiliary searchable text (synonyms, related terms)
	Settings    []SettingDef `json:"settings"`
}

// Schema is the full set of pages the registry serves.
type Schema struct {
	Pages []PageDef `json:"pages"`
}

// Validate checks the schema for structural problems and returns a list of
// human-readable conflicts. An empty list means the schema is usable.
func (s *Schema) Validate() []string {
	var conflicts []string

	seenPages := make(map[string]bool)
	// Setting keys are scoped by section, not by page, so duplicate detection
	// spans the whole schema. Two pages defining the same (section, key) would
	// alias one stored value.
	seenKeys := make(map[string]string)
	for _, page := range s.Pages {
		if strings.TrimSpace(page.Name) == "" {
			conflicts = append(conflicts, "Page name cannot be empty or whitespace-only")
			continue
		}
		if seenPages[page.Name] {
			conflicts = append(conflicts, "Duplicate page name '"+page.Name+"'")
		}
		seenPages[page.Name] = true

		conflicts = append(conflicts, validatePageSettings(&page, seenKeys)...)
	}

	return conflicts
}

func validatePageSettings(page *PageDef, seenKeys map[string]string) []string {
	var conflicts []string

	for i := range page.Settings {
		def := &page.Settings[i]
		if strings.TrimSpace(def.Key) == "" {
			conflicts = append(conflicts, "Setting key cannot be empty (page '"+page.Name+"')")
			continue
		}
		if strings.TrimSpace(def.Section) == "" {
			conflicts = append(conflicts, "Setting '"+def.Key+"' has no section (page '"+page.Name+"')")
		}

		qualified := def.Section + "." + def.Key
		if owner, dup := seenKeys[qualified]; dup {
			if owner == page.Name {
				conflicts = append(conflicts, "Duplicate setting '"+qualified+"' in page '"+page.Name+"'")
			} else {
				conflicts = append(conflicts, "Setting '"+qualified+"' in page '"+page.Name+"' is already defined by page '"+owner+"'")
			}
		} else {
			seenKeys[qualified] = page.Name
		}

		conflicts = append(conflicts, validateSettingDef(def)...)
	}

	return conflicts
}

func validateSettingDef(def *SettingDef) []string {
	var conflicts []string
	qualified := def.Section + "." + def.Key

	switch def.Type {
	case TypeBool, TypeString:
		// No extra constraints.
	case TypeInt, TypeFloat:
		if def.Min > def.Max {
			conflicts = append(conflicts, "Setting '"+qualified+"' has min > max")
		}
		if def.Default != nil {
			value, err := cast.ToFloat64E(def.Default)
			if err != nil {
				conflicts = append(conflicts, "Setting '"+qualified+"' has a non-numeric default")
			} else if value < def.Min || value > def.Max {
				conflicts = append(conflicts, "Setting '"+qualified+"' default is outside [min, max]")
			}
		}
	case TypeChoice:
		if len(def.Choices) == 0 {
			conflicts = append(conflicts, "Choice setting '"+qualified+"' has no choices")
		} else if def.Default != nil {
			value := cast.ToString(def.Default)
			found := false
			for _, choice := range def.Choices {
				if choice == value {
					found = true
					break
				}
			}
			if !found {
				conflicts = append(conflicts, "Choice setting '"+qualified+"' default '"+value+"' is not among its choices")
			}
		}
	default:
		conflicts = append(conflicts, "Setting '"+qualified+"' has unknown type '"+string(def.Type)+"'")
	}

	return conflicts
}

// ApplyDefaults fills in the optional parts of the schema: empty labels fall
// back to the key/name, numeric settings with no declared range get the
// [0, 1] slider range, and choice settings default to their first choice.
func (s *Schema) ApplyDefaults() {
	for p := range s.Pages {
		page := &s.Pages[p]
		if page.Label == "" {
			page.Label = page.Name
		}
		for i := range page.Settings {
			def := &page.Settings[i]
			if def.Label == "" {
				def.Label = def.Key
			}
			if def.numeric() && def.Min == 0 && def.Max == 0 {
				def.Max = 1
			}
			if def.Default == nil {
				switch def.Type {
				case TypeBool:
					def.Default = false
				case TypeInt:
					def.Default = int(def.Min)
				case TypeFloat:
					def.Default = def.Min
				case TypeString:
					def.Default = ""
				case TypeChoice:
					if len(def.Choices) > 0 {
						def.Default = def.Choices[0]
					}
				}
			}
		}
	}
}

// Page returns the page with the given name.
func (s *Schema) Page(name string) (PageDef, bool) {
	for _, page := range s.Pages {
		if page.Name == name {
			return page, true
		}
	}
	return PageDef{}, false
}

// Defs returns every setting definition in the schema, in page order.
func (s *Schema) Defs() []SettingDef {
	var defs []SettingDef
	for _, page := range s.Pages {
		defs = append(defs, page.Settings...)
	}
	return defs
}
