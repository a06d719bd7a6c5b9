// Package i18n holds the user's language preference and the translation
// table. The preference persists under the language cache key; everything
// else falls back to English, and an untranslated key renders as itself.
package i18n

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/loan-compass/loan_compass/internal/storage"
)

// Language is a supported locale code.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageTamil   Language = "ta"
)

// ErrUnsupportedLanguage rejects locale codes outside the fixed set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Supported reports whether l is a recognized locale code.
func Supported(l Language) bool {
	switch l {
	case LanguageEnglish, LanguageHindi, LanguageTamil:
		return true
	}
	return false
}

// Manager owns the active language.
type Manager struct {
	store  storage.Store
	logger *slog.Logger

	mu   sync.Mutex
	lang Language
}

// NewManager builds a manager defaulting to English; call Init to restore
// the persisted preference.
func NewManager(store storage.Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger, lang: LanguageEnglish}
}

// Init restores the persisted language. An absent or unrecognized value
// leaves the default in place.
func (m *Manager) Init(ctx context.Context) Language {
	var stored Language
	if m.store.Get(ctx, storage.KeyLanguage, &stored) {
		if Supported(stored) {
			m.mu.Lock()
			m.lang = stored
			m.mu.Unlock()
		} else {
			m.logger.Warn("ignoring unsupported persisted language", "language", string(stored))
		}
	}
	return m.Language()
}

// Set switches and persists the active language.
func (m *Manager) Set(ctx context.Context, lang Language) error {
	if !Supported(lang) {
		return ErrUnsupportedLanguage
	}
	m.mu.Lock()
	m.lang = lang
	m.mu.Unlock()
	m.store.Set(ctx, storage.KeyLanguage, lang)
	return nil
}

// Language returns the active locale code.
func (m *Manager) Language() Language {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lang
}

// T looks up a dotted translation key in the active language, falling back
// to English and finally to the key itself.
func (m *Manager) T(key string) string {
	lang := m.Language()
	if table, ok := translations[lang]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if lang != LanguageEnglish {
		if msg, ok := translations[LanguageEnglish][key]; ok {
			return msg
		}
	}
	return key
}
