// Package i18n holds the client's UI strings for every supported language.
// Lookups for an unknown language fall back to Portuguese, and unknown keys
// are returned as-is.
package i18n

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

//go:embed translations.yaml
var translationsYAML []byte

var (
	loadOnce     sync.Once
	translations map[model.Language]map[string]string
	loadErr      error
)

func load() {
	loadOnce.Do(func() {
		loadErr = yaml.Unmarshal(translationsYAML, &translations)
		if loadErr != nil {
			loadErr = fmt.Errorf("parse translations: %w", loadErr)
		}
	})
}

// Validate reports whether the embedded table parsed and every language
// defines every key the default language defines.
func Validate() error {
	load()
	if loadErr != nil {
		return loadErr
	}
	base := translations[model.DefaultLanguage]
	for _, lang := range model.SupportedLanguages {
		table, ok := translations[lang]
		if !ok {
			return fmt.Errorf("translations: missing language %q", lang)
		}
		for key := range base {
			if _, ok := table[key]; !ok {
				return fmt.Errorf("translations: %q missing key %q", lang, key)
			}
		}
	}
	return nil
}

func T(lang model.Language, key string) string {
	load()
	if text, ok := translations[lang][key]; ok {
		return text
	}
	if text, ok := translations[model.DefaultLanguage][key]; ok {
		return text
	}
	return key
}

// Greeting picks the salutation for the hour of day (0-23).
func Greeting(lang model.Language, hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return T(lang, "greeting.morning")
	case hour >= 12 && hour < 18:
		return T(lang, "greeting.afternoon")
	default:
		return T(lang, "greeting.evening")
	}
}

// TicketSeed is the first message of a new support ticket.
func TicketSeed(lang model.Language, subject string) string {
	return fmt.Sprintf(T(lang, "ticket.seed"), subject)
}

func Tab(lang model.Language, tab string) string {
	return T(lang, "tab."+tab)
}
