// Package i18n holds the UI language preference and the en/ar labels.
package i18n

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/leemaz/leemaz/internal/store"
	"github.com/leemaz/leemaz/pkg/domain"
)

//go:embed messages.yaml
var messagesYAML []byte

var catalog = mustParse(messagesYAML)

func mustParse(data []byte) map[domain.Language]map[string]string {
	var out map[domain.Language]map[string]string
	if err := yaml.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("i18n: parse messages: %v", err))
	}
	return out
}

// Preferences is the persisted language choice. Safe for concurrent use.
type Preferences struct {
	store store.Store
	log   *slog.Logger

	mu   sync.RWMutex
	lang domain.Language
}

// New returns Preferences defaulting to English. Call Load to read the
// stored choice.
func New(st store.Store, log *slog.Logger) *Preferences {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Preferences{store: st, log: log, lang: domain.LangEnglish}
}

// Load reads the stored language. Storage errors and unknown values are
// logged and leave the current language unchanged.
func (p *Preferences) Load() domain.Language {
	v, ok, err := p.store.Get(store.KeyLanguage)
	if err != nil {
		p.log.Warn("read language", "err", err)
		return p.Language()
	}
	if ok && domain.Language(v).Valid() {
		p.mu.Lock()
		p.lang = domain.Language(v)
		p.mu.Unlock()
	}
	return p.Language()
}

// Set persists and applies lang.
func (p *Preferences) Set(lang domain.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("i18n.Set: unsupported language %q", lang)
	}
	if err := p.store.Set(store.KeyLanguage, string(lang)); err != nil {
		p.log.Warn("persist language", "err", err)
	}
	p.mu.Lock()
	p.lang = lang
	p.mu.Unlock()
	return nil
}

// Toggle switches between English and Arabic and returns the new language.
func (p *Preferences) Toggle() domain.Language {
	next := domain.LangArabic
	if p.Language() == domain.LangArabic {
		next = domain.LangEnglish
	}
	_ = p.Set(next) // next is always valid
	return next
}

// Language returns the active language.
func (p *Preferences) Language() domain.Language {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lang
}

// IsRTL reports whether the active language is right-to-left.
func (p *Preferences) IsRTL() bool { return p.Language().RTL() }

// T returns the label for key in the active language, falling back to
// English and then to the key itself.
func (p *Preferences) T(key string) string {
	return Lookup(p.Language(), key)
}

// Lookup returns the label for key in lang.
func Lookup(lang domain.Language, key string) string {
	if v, ok := catalog[lang][key]; ok {
		return v
	}
	if v, ok := catalog[domain.LangEnglish][key]; ok {
		return v
	}
	return key
}
