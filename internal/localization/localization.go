// Package localization resolves the user's language priority list against
// the set of locales the content actually ships with.
package localization

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Locale is one available language, described by its canonical BCP-47 tag
// and its own-language display name.
type Locale struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

// Catalog holds the locales available to the user and matches preference
// lists against them.
type Catalog struct {
	tags    []language.Tag
	matcher language.Matcher
}

// NewCatalog builds a catalog from raw locale tags. The first tag acts as
// the fallback when nothing in a preference list matches.
func NewCatalog(tags []string) (*Catalog, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("locale catalog cannot be empty")
	}

	parsed := make([]language.Tag, len(tags))
	for i, raw := range tags {
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid locale tag %q: %w", raw, err)
		}
		parsed[i] = tag
	}
	return &Catalog{tags: parsed, matcher: language.NewMatcher(parsed)}, nil
}

// DefaultCatalog returns the catalog of locales the registry ships with.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog([]string{"en", "de", "fr", "es", "it", "pl", "pt", "ru", "ja", "zh"})
	if err != nil {
		// The built-in tags are constants; a parse failure is a programming error.
		panic(err)
	}
	return catalog
}

// Locales lists the available locales in catalog order.
func (c *Catalog) Locales() []Locale {
	locales := make([]Locale, len(c.tags))
	for i, tag := range c.tags {
		locales[i] = Locale{Tag: tag.String(), Name: DisplayName(tag)}
	}
	return locales
}

// MatchResult is the outcome of resolving a preference list.
type MatchResult struct {
	Locale     Locale `json:"locale"`
	Confidence string `json:"confidence"` // "Exact", "High", "Low" or "No"
}

// Match resolves an ordered preference list ("what languages does the user
// want, best first") to the closest available locale. An empty list resolves
// to the catalog's fallback. Invalid tags in the list are rejected.
func (c *Catalog) Match(priorities []string) (MatchResult, error) {
	wanted := make([]language.Tag, 0, len(priorities))
	for _, raw := range priorities {
		tag, err := language.Parse(raw)
		if err != nil {
			return MatchResult{}, fmt.Errorf("invalid locale tag %q: %w", raw, err)
		}
		wanted = append(wanted, tag)
	}

	_, index, confidence := c.matcher.Match(wanted...)
	tag := c.tags[index]
	return MatchResult{
		Locale:     Locale{Tag: tag.String(), Name: DisplayName(tag)},
		Confidence: confidence.String(),
	}, nil
}

// DisplayName returns the language's name in that language itself, e.g.
// "Deutsch" for German. Falls back to the raw tag when no name is known.
func DisplayName(tag language.Tag) string {
	name := display.Self.Name(tag)
	if name == "" {
		return tag.String()
	}
	return name
}
