// Package i18n renders user-facing text in English or Persian.
//
// Messages are printf-style templates registered in an x/text message
// catalog. Arguments are always pre-formatted strings so ids and codes are
// never localized into other digit systems.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Default is the language used when a user has no preference.
const Default = "en"

var supported = []language.Tag{language.English, language.Persian}

// codes are the stored language codes, index-aligned with supported.
var codes = []string{"en", "fa"}

var displayNames = map[string]string{"en": "English", "fa": "Persian"}

// Catalog renders messages.
//
// Thread-safety: immutable after construction and safe for concurrent use.
type Catalog struct {
	matcher  language.Matcher
	printers map[string]*message.Printer
}

// New builds the catalog from the built-in English and Persian messages.
func New() (*Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	sources := map[language.Tag]map[string]string{
		language.English: english,
		language.Persian: persian,
	}
	for tag, msgs := range sources {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("register %s message %q: %w", tag, key, err)
			}
		}
	}

	c := &Catalog{
		matcher:  language.NewMatcher(supported),
		printers: make(map[string]*message.Printer, len(codes)),
	}
	for i, code := range codes {
		c.printers[code] = message.NewPrinter(supported[i], message.Catalog(b))
	}
	return c, nil
}

// MustNew is New for package initialisation; it panics on error.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Match maps a user-supplied language tag ("fa", "FA-ir", "en-GB") to a
// supported code. ok is false for tags that match nothing supported.
func (c *Catalog) Match(input string) (code string, ok bool) {
	tag, err := language.Parse(strings.TrimSpace(input))
	if err != nil {
		return "", false
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return codes[idx], true
}

// T renders key in lang. Unknown languages render in English.
func (c *Catalog) T(lang, key string, args ...string) string {
	p, ok := c.printers[lang]
	if !ok {
		p = c.printers[Default]
	}
	a := make([]any, len(args))
	for i, s := range args {
		a[i] = s
	}
	return p.Sprintf(key, a...)
}

// DisplayName returns the human name of a supported language code.
func DisplayName(code string) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	return code
}

// IsCancel reports whether text is the Cancel reply button in any language.
func (c *Catalog) IsCancel(text string) bool {
	text = strings.TrimSpace(text)
	for _, code := range codes {
		if text == c.T(code, KeyCancelButton) {
			return true
		}
	}
	return false
}
