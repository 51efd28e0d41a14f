package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-forge/internal/state"
)

func light() bool { return false }
func dark() bool  { return true }

func TestTranslateFallback(t *testing.T) {
	assert.Equal(t, "返回", Translate(TraditionalChinese, "common.back", nil))
	assert.Equal(t, "Zurück", Translate(German, "common.back", nil))
	assert.Equal(t, "Sim.title", Translate(German, "Sim.title", nil), "unknown key comes back as-is")
	assert.Equal(t, "Simulation", Translate(German, "sim.title", nil), "missing key falls back to English")
}

func TestTranslateParams(t *testing.T) {
	got := Translate(English, "home.status", map[string]any{"step": "check", "index": 2, "total": 3})
	assert.Equal(t, "Step check · snapshot 2/3", got)
	assert.Equal(t, "✓ 已使用 4 題", Translate(TraditionalChinese, "inspiration.used_count", map[string]any{"count": 4}))
}

func TestEveryLanguageHasATable(t *testing.T) {
	for _, l := range Languages {
		assert.NotEmpty(t, translations[l], l)
	}
	for key := range translations[TraditionalChinese] {
		_, ok := translations[English][key]
		assert.True(t, ok, "zh-TW key %q missing from English", key)
	}
}

func TestCycleLanguage(t *testing.T) {
	s := NewStore(state.NewMemoryStore(), Portuguese, WithDarkDetector(light))
	assert.Equal(t, English, s.CycleLanguage())
	assert.Equal(t, TraditionalChinese, s.CycleLanguage())
	assert.Equal(t, "返回", s.T("common.back", nil))
}

func TestNewStoreRejectsUnknownLanguage(t *testing.T) {
	s := NewStore(state.NewMemoryStore(), "klingon", WithDarkDetector(light))
	assert.Equal(t, English, s.Language())
	assert.Error(t, s.SetLanguage("klingon"))
	require.NoError(t, s.SetLanguage(Japanese))
	assert.Equal(t, Japanese, s.Language())
}

func TestThemeDefaultsFromBackground(t *testing.T) {
	assert.Equal(t, ThemeDark, NewStore(state.NewMemoryStore(), English, WithDarkDetector(dark)).Theme())
	assert.Equal(t, ThemeLight, NewStore(state.NewMemoryStore(), English, WithDarkDetector(light)).Theme())

	kv := state.NewMemoryStore()
	kv.Set(state.KeyTheme, "neon")
	assert.Equal(t, ThemeDark, NewStore(kv, English, WithDarkDetector(dark)).Theme(), "invalid stored theme ignored")
}

func TestThemeCyclePersists(t *testing.T) {
	kv := state.NewMemoryStore()
	kv.Set(state.KeyTheme, "black")
	s := NewStore(kv, English, WithDarkDetector(light))
	assert.Equal(t, ThemeBlack, s.Theme())
	assert.Equal(t, "nightlight", s.ThemeIcon())

	got, err := s.CycleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeAmoled, got)
	got, err = s.CycleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, got)

	raw, ok, _ := kv.Get(state.KeyTheme)
	require.True(t, ok)
	assert.Equal(t, "light", raw)
	assert.Equal(t, ThemeLight, NewStore(kv, English, WithDarkDetector(dark)).Theme())
	assert.Error(t, s.SetTheme("neon"))
}

func TestThemeIcons(t *testing.T) {
	want := map[Theme]string{
		ThemeLight:  "light_mode",
		ThemeSlate:  "bedtime",
		ThemeDark:   "dark_mode",
		ThemeBlack:  "nightlight",
		ThemeAmoled: "brightness_3",
	}
	for theme, icon := range want {
		assert.Equal(t, icon, theme.Icon())
	}
	assert.False(t, ThemeLight.Dark())
	assert.True(t, ThemeSlate.Dark())
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]Language{
		"de_DE.UTF-8": German,
		"ja_JP":       Japanese,
		"zh_TW.UTF-8": TraditionalChinese,
		"zh-CN":       SimplifiedChinese,
		"fr":          French,
		"en_US.UTF-8": English,
		"C":           English,
		"":            English,
		"not a tag!!": English,
	}
	for in, want := range cases {
		assert.Equal(t, want, DetectLanguage(in), in)
	}
}
