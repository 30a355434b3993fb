// Package i18n loads the embedded translation files and renders user-facing
// messages for the import screen.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Message IDs.
const (
	MsgTitle         = "import.title"
	MsgSubtitle      = "import.subtitle"
	MsgPlaceholder   = "import.placeholder"
	MsgContinue      = "import.continue"
	MsgSuccess       = "import.success"
	MsgImporting     = "import.importing"
	MsgInvalidPhrase = "import.invalid_phrase"
	MsgInvalidWord   = "import.invalid_word" // data: Word
	MsgWordCount     = "import.word_count"
	MsgHelp          = "import.help"
)

// DefaultLanguage is used when no requested language has translations.
const DefaultLanguage = "en"

//go:embed locales/*.yaml
var localeFS embed.FS

// Bundle holds every parsed translation file.
type Bundle struct {
	b *i18n.Bundle
}

// NewBundle parses the embedded locale files.
func NewBundle() (*Bundle, error) {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", f.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", f.Name(), err)
		}
	}
	return &Bundle{b: b}, nil
}

// Languages returns the tags of all loaded translations.
func (b *Bundle) Languages() []string {
	tags := b.b.LanguageTags()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}

// Localizer returns a Localizer preferring langs in order, then English.
// Each entry may be a tag ("de") or an Accept-Language value.
func (b *Bundle) Localizer(langs ...string) *Localizer {
	langs = append(langs, DefaultLanguage)
	return &Localizer{l: i18n.NewLocalizer(b.b, langs...)}
}

// Localizer renders messages in one preferred language.
type Localizer struct {
	l *i18n.Localizer
}

// New is a shorthand for NewBundle followed by Localizer(lang).
func New(lang string) (*Localizer, error) {
	b, err := NewBundle()
	if err != nil {
		return nil, err
	}
	return b.Localizer(lang), nil
}

// Localize renders message id with data. An unknown id is returned as is.
func (l *Localizer) Localize(id string, data map[string]any) string {
	cfg := &i18n.LocalizeConfig{MessageID: id}
	if data != nil {
		cfg.TemplateData = data
	}
	// A message missing from the chosen language comes back in English
	// together with a not-found error.
	msg, err := l.l.Localize(cfg)
	if err != nil && msg == "" {
		return id
	}
	return msg
}

// T renders a message that takes no template data.
func (l *Localizer) T(id string) string {
	return l.Localize(id, nil)
}

// MustNewBundle is like NewBundle but panics on error. The locale files are
// embedded, so an error here is a build defect.
func MustNewBundle() *Bundle {
	b, err := NewBundle()
	if err != nil {
		panic(err)
	}
	return b
}
