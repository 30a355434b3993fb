package i18n

import (
	"sort"
	"testing"
)

func TestLocalize_English(t *testing.T) {
	l, err := New("en")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	tests := []struct {
		id   string
		data map[string]any
		want string
	}{
		{MsgInvalidPhrase, nil, "Invalid phrase"},
		{MsgInvalidWord, map[string]any{"Word": "abandnn"}, "Invalid word: abandnn"},
		{MsgWordCount, nil, "Recovery phrase must be 12-24 words"},
		{MsgContinue, nil, "Continue"},
	}
	for _, tt := range tests {
		if got := l.Localize(tt.id, tt.data); got != tt.want {
			t.Errorf("Localize(%s) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestLocalize_German(t *testing.T) {
	l, err := New("de")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := l.T(MsgInvalidPhrase); got != "Ungültige Phrase" {
		t.Errorf("T() = %q", got)
	}
	if got := l.Localize(MsgInvalidWord, map[string]any{"Word": "xyz"}); got != "Ungültiges Wort: xyz" {
		t.Errorf("Localize() = %q", got)
	}
}

func TestLocalize_Fallback(t *testing.T) {
	b, err := NewBundle()
	if err != nil {
		t.Fatalf("NewBundle() error: %v", err)
	}

	// No French translations: fall back to English.
	l := b.Localizer("fr")
	if got := l.T(MsgInvalidPhrase); got != "Invalid phrase" {
		t.Errorf("T() = %q, want English fallback", got)
	}

	// Accept-Language style input.
	l = b.Localizer("fr-CH, de;q=0.9, en;q=0.8")
	if got := l.T(MsgContinue); got != "Weiter" {
		t.Errorf("T() = %q, want German", got)
	}

	if got := l.T("no.such.message"); got != "no.such.message" {
		t.Errorf("unknown id = %q, want id echoed", got)
	}
}

func TestBundle_Languages(t *testing.T) {
	b, err := NewBundle()
	if err != nil {
		t.Fatalf("NewBundle() error: %v", err)
	}
	langs := b.Languages()
	sort.Strings(langs)
	if len(langs) != 2 || langs[0] != "de" || langs[1] != "en" {
		t.Errorf("Languages() = %v, want [de en]", langs)
	}
}
