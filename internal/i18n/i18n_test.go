package i18n

import (
	"strings"
	"testing"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

func TestTranslationsComplete(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestGreetingByHour(t *testing.T) {
	cases := []struct {
		lang model.Language
		hour int
		want string
	}{
		{model.LanguagePT, 9, "Bom dia"},
		{model.LanguagePT, 14, "Boa tarde"},
		{model.LanguagePT, 22, "Boa noite"},
		{model.LanguageEN, 2, "Good evening"},
		{model.LanguageFR, 11, "Bonjour"},
	}
	for _, tc := range cases {
		if got := Greeting(tc.lang, tc.hour); got != tc.want {
			t.Fatalf("Greeting(%s, %d) = %q, want %q", tc.lang, tc.hour, got, tc.want)
		}
	}
}

func TestFallbacks(t *testing.T) {
	if got := T(model.Language("de"), "tab.help"); got != "Ajuda" {
		t.Fatalf("expected Portuguese fallback, got %q", got)
	}
	if got := T(model.LanguageEN, "no.such.key"); got != "no.such.key" {
		t.Fatalf("expected key echo, got %q", got)
	}
}

func TestTicketSeedContainsSubject(t *testing.T) {
	for _, lang := range model.SupportedLanguages {
		if seed := TicketSeed(lang, "VPN down"); !strings.Contains(seed, "VPN down") {
			t.Fatalf("%s seed %q lacks subject", lang, seed)
		}
	}
}
