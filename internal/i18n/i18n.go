package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var bundled embed.FS

// DefaultLanguage is used when the device locale cannot be parsed
const DefaultLanguage = "en"

// Supported lists the languages with a bundled fallback table
var Supported = []string{"ar", "ru", "en", "fr", "it", "es", "pt"}

// DeviceLanguage reduces a platform locale ("en_US", "pt-BR", "ru") to its
// ISO 639-1 base language
func DeviceLanguage(locale string) string {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
	if err != nil {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	return base.String()
}

// IsRTL reports whether lang is written right to left
func IsRTL(lang string) bool {
	return lang == "ar" || lang == "he"
}

// Bundled returns the fallback table shipped for lang. Unsupported languages
// have no table.
func Bundled(lang string) (map[string]string, error) {
	supported := false
	for _, l := range Supported {
		if l == lang {
			supported = true
			break
		}
	}
	if !supported {
		return map[string]string{}, nil
	}

	data, err := bundled.ReadFile("locales/" + lang + ".json")
	if err != nil {
		return nil, fmt.Errorf("failed to read %s translations: %w", lang, err)
	}
	table := map[string]string{}
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to decode %s translations: %w", lang, err)
	}
	return table, nil
}

// LangVar is one remote language variable
type LangVar struct {
	Name          string `json:"name,omitempty"`
	OriginalValue string `json:"original_value"`
	Value         string `json:"value"`
}

// Translations is the body of GET /sra_translations
type Translations struct {
	LangVars []LangVar `json:"langvars"`
}

// Table keys remote variables by their original English value
func (t Translations) Table() map[string]string {
	out := make(map[string]string, len(t.LangVars))
	for _, v := range t.LangVars {
		out[v.OriginalValue] = v.Value
	}
	return out
}

// Translator looks up strings by their English original
type Translator struct {
	lang string

	mu    sync.RWMutex
	table map[string]string
}

// New returns a translator seeded with the bundled table for lang
func New(lang string) (*Translator, error) {
	table, err := Bundled(lang)
	if err != nil {
		return nil, err
	}
	return &Translator{lang: lang, table: table}, nil
}

func (t *Translator) Lang() string {
	return t.lang
}

// Merge lays entries over the current table
func (t *Translator) Merge(entries map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := make(map[string]string, len(t.table)+len(entries))
	for k, v := range t.table {
		next[k] = v
	}
	for k, v := range entries {
		next[k] = v
	}
	t.table = next
}

// T translates key, falling back to the key itself
func (t *Translator) T(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.table[key]; ok && v != "" {
		return v
	}
	return key
}
