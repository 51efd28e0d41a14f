// Package i18n resolves UI strings in the selected language and holds the
// persisted colour theme.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/danielpatrickdp/persona-forge/internal/state"
)

// #region language
// Language is a supported UI language code.
type Language string

const (
	English            Language = "en"
	TraditionalChinese Language = "zh-TW"
	SimplifiedChinese  Language = "zh-CN"
	Japanese           Language = "ja"
	Korean             Language = "ko"
	German             Language = "de"
	Spanish            Language = "es"
	French             Language = "fr"
	Portuguese         Language = "pt"
)

// Languages is the cycle order.
var Languages = []Language{
	English, TraditionalChinese, SimplifiedChinese, Japanese, Korean,
	German, Spanish, French, Portuguese,
}

// ParseLanguage accepts an exact language code.
func ParseLanguage(s string) (Language, bool) {
	for _, l := range Languages {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.MustParse("zh-TW"),
	language.MustParse("zh-CN"),
	language.Japanese,
	language.Korean,
	language.German,
	language.Spanish,
	language.French,
	language.Portuguese,
})

// DetectLanguage maps a locale string such as "de_DE.UTF-8" or "zh-Hant" to
// the closest supported language. Anything unrecognised is English.
func DetectLanguage(envLang string) Language {
	s := envLang
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" || s == "C" || s == "POSIX" {
		return English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return English
	}
	return Languages[idx]
}
// #endregion language

// #region theme
// Theme is a colour scheme for the terminal renderer.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeSlate  Theme = "slate"
	ThemeDark   Theme = "dark"
	ThemeBlack  Theme = "black"
	ThemeAmoled Theme = "amoled"
)

// Themes is the cycle order.
var Themes = []Theme{ThemeLight, ThemeSlate, ThemeDark, ThemeBlack, ThemeAmoled}

// ParseTheme accepts an exact theme name.
func ParseTheme(s string) (Theme, bool) {
	for _, t := range Themes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Dark reports whether t renders light text on a dark background.
func (t Theme) Dark() bool {
	return t != ThemeLight
}

// Icon is the material icon name shown for the theme toggle.
func (t Theme) Icon() string {
	switch t {
	case ThemeSlate:
		return "bedtime"
	case ThemeDark:
		return "dark_mode"
	case ThemeBlack:
		return "nightlight"
	case ThemeAmoled:
		return "brightness_3"
	default:
		return "light_mode"
	}
}

func next[T comparable](order []T, cur T) T {
	for i, v := range order {
		if v == cur {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}
// #endregion theme

// #region store
// Store holds the current language and theme. The theme is persisted; the
// language comes from configuration on every start.
type Store struct {
	kv     state.KV
	log    zerolog.Logger
	isDark func() bool

	mu    sync.RWMutex
	lang  Language
	theme Theme
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage failures.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithDarkDetector replaces the terminal background probe.
func WithDarkDetector(fn func() bool) Option {
	return func(s *Store) { s.isDark = fn }
}

// NewStore loads the stored theme. When none is stored, or the stored value
// is not a known theme, the terminal background decides between dark and
// light.
func NewStore(kv state.KV, lang Language, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		log:    zerolog.Nop(),
		isDark: termenv.HasDarkBackground,
		lang:   English,
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := ParseLanguage(string(lang)); ok {
		s.lang = lang
	}
	s.theme = s.loadTheme()
	return s
}

func (s *Store) loadTheme() Theme {
	raw, ok, err := s.kv.Get(state.KeyTheme)
	if err != nil {
		s.log.Warn().Err(err).Msg("theme read failed")
	}
	if ok {
		if t, valid := ParseTheme(raw); valid {
			return t
		}
	}
	if s.isDark() {
		return ThemeDark
	}
	return ThemeLight
}

func (s *Store) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage switches the UI language.
func (s *Store) SetLanguage(l Language) error {
	if _, ok := ParseLanguage(string(l)); !ok {
		return fmt.Errorf("unsupported language %q", l)
	}
	s.mu.Lock()
	s.lang = l
	s.mu.Unlock()
	return nil
}

// CycleLanguage advances to the next language and returns it.
func (s *Store) CycleLanguage() Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = next(Languages, s.lang)
	return s.lang
}

func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme switches and persists the theme.
func (s *Store) SetTheme(t Theme) error {
	if _, ok := ParseTheme(string(t)); !ok {
		return fmt.Errorf("unsupported theme %q", t)
	}
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()
	if err := s.kv.Set(state.KeyTheme, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// CycleTheme advances to and persists the next theme.
func (s *Store) CycleTheme() (Theme, error) {
	t := next(Themes, s.Theme())
	return t, s.SetTheme(t)
}

// ThemeIcon is the icon for the current theme.
func (s *Store) ThemeIcon() string {
	return s.Theme().Icon()
}
// #endregion store

// #region translate
// T resolves key in the current language, then English, then returns the
// key itself. Each {name} in the text is replaced by params[name].
func (s *Store) T(key string, params map[string]any) string {
	return Translate(s.Language(), key, params)
}

// Translate is T for an explicit language.
func Translate(lang Language, key string, params map[string]any) string {
	text, ok := translations[lang][key]
	if !ok {
		text, ok = translations[English][key]
	}
	if !ok {
		text = key
	}
	for name, v := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", fmt.Sprint(v))
	}
	return text
}
// #endregion translate
