package i18n

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTranslateMissingKey(t *testing.T) {
	catalog := New("en")
	assert.Equal(t, "#missing_key", catalog.Translate("missing_key", nil))
}

func TestTranslateSubstitutesParams(t *testing.T) {
	catalog := New("en")
	catalog.Merge(map[string]string{"greeting": "Hello #{name}"})

	assert.Equal(t, "Hello Ada", catalog.Translate("greeting", map[string]any{"name": "Ada"}))
}

func TestTranslateLeavesUnmatchedPlaceholders(t *testing.T) {
	catalog := New("en")
	catalog.Merge(map[string]string{"greeting": "Hello #{name}, you have #{count} #{things}"})

	assert.Equal(t,
		"Hello #{name}, you have 3 #{things}",
		catalog.Translate("greeting", map[string]any{"count": 3, "things": nil}))
	assert.Equal(t, "Hello #{name}, you have #{count} #{things}", catalog.Translate("greeting", nil))
}

func TestTranslateRepeatedPlaceholder(t *testing.T) {
	catalog := New("en")
	catalog.Merge(map[string]string{"echo": "#{w} #{w}!"})

	assert.Equal(t, "hey hey!", catalog.Translate("echo", map[string]any{"w": "hey"}))
}

func TestLoadMergesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yml")
	second := filepath.Join(dir, "second.yml")
	mustWriteFile(t, first, "title: First\nshared: from first\n")
	mustWriteFile(t, second, "shared: from second\n")

	catalog := New("en")
	catalog.Load(first)
	catalog.Load(second)

	assert.Equal(t, "First", catalog.Translate("title", nil))
	assert.Equal(t, "from second", catalog.Translate("shared", nil))
	assert.Equal(t, 2, catalog.Len())
}

func TestLoadSamePathOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.yml")
	mustWriteFile(t, path, "title: Original\n")

	catalog := New("en")
	catalog.Load(path)
	mustWriteFile(t, path, "title: Changed\nextra: yes\n")
	catalog.Load(path)
	catalog.Load(filepath.Join(dir, ".", "en.yml"))

	assert.Equal(t, "Original", catalog.Translate("title", nil))
	assert.False(t, catalog.Has("extra"))
	assert.True(t, catalog.Loaded(path))
}

func TestLoadFlattensNestedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.yml")
	mustWriteFile(t, path, "page:\n  edit: \"Edit #{page}\"\n  count: 3\n  empty:\n")

	catalog := New("en")
	catalog.Load(path)

	assert.Equal(t, "Edit Home", catalog.Translate("page.edit", map[string]any{"page": "Home"}))
	assert.Equal(t, "3", catalog.Translate("page.count", nil))
	assert.Equal(t, "", catalog.Translate("page.empty", nil))
}

func TestLoadNonStringKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.yml")
	mustWriteFile(t, path, "page:\n  edit: \"Edit #{page}\"\n  1: one\nerrors:\n  404: Not found\n")

	catalog := New("en")
	catalog.Load(path)

	assert.Equal(t, "Edit Home", catalog.Translate("page.edit", map[string]any{"page": "Home"}))
	assert.Equal(t, "one", catalog.Translate("page.1", nil))
	assert.Equal(t, "Not found", catalog.Translate("errors.404", nil))
	assert.False(t, catalog.Has("page"))
	assert.Equal(t, 3, catalog.Len())
}

func TestLoadRejectsNonMapping(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "list.yml")
	empty := filepath.Join(dir, "empty.yml")
	mustWriteFile(t, list, "- one\n- two\n")
	mustWriteFile(t, empty, "")

	catalog := New("en")
	catalog.Load(list)
	catalog.Load(empty)

	assert.False(t, catalog.Loaded(list))
	assert.True(t, catalog.Loaded(empty))
	assert.Equal(t, 0, catalog.Len())
}

func TestLoadFailuresAreSwallowed(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yml")
	mustWriteFile(t, broken, "title: [unclosed\n")

	core, logs := observer.New(zapcore.DebugLevel)
	catalog := New("en", WithLogger(zap.New(core)))

	assert.NotPanics(t, func() {
		catalog.Load(filepath.Join(dir, "missing.yml"))
		catalog.Load(broken)
	})
	assert.Equal(t, 0, catalog.Len())
	assert.False(t, catalog.Loaded(broken), "failed loads can be retried")
	assert.Len(t, logs.FilterMessage("locale load skipped").All(), 2)

	mustWriteFile(t, broken, "title: fixed\n")
	catalog.Load(broken)
	assert.Equal(t, "fixed", catalog.Translate("title", nil))
}

func TestLoadLocaleDialectOverridesBase(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "en.yml"), "color: colour\nhome: Home\n")
	mustWriteFile(t, filepath.Join(dir, "en_US.yml"), "color: color\n")

	catalog := New("en_US")
	catalog.LoadLocale(filepath.Join(dir, "LANG.yml"))

	assert.Equal(t, "color", catalog.Translate("color", nil))
	assert.Equal(t, "Home", catalog.Translate("home", nil), "base language fills gaps")
	assert.True(t, catalog.Loaded(filepath.Join(dir, "en.yml")))
	assert.True(t, catalog.Loaded(filepath.Join(dir, "en_US.yml")))
}

func TestLoadLocaleWithoutDialectFile(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "de.yml"), "home: Startseite\n")

	catalog := New("de-AT")
	catalog.LoadLocale(filepath.Join(dir, "LANG.yml"))

	assert.Equal(t, "Startseite", catalog.Translate("home", nil))
}

func TestLoadLocalePlainLanguage(t *testing.T) {
	var read []string
	catalog := New("fr", WithReadFile(func(path string) ([]byte, error) {
		read = append(read, path)
		return nil, errors.New("absent")
	}))
	catalog.LoadLocale("locale/LANG.yml")

	assert.Equal(t, []string{filepath.Clean("locale/fr.yml")}, read)
}

func TestBaseLanguage(t *testing.T) {
	tests := map[string]string{
		"en_US": "en",
		"en-US": "en",
		"pt-BR": "pt",
		"de":    "",
		"en":    "",
	}
	for locale, want := range tests {
		t.Run(locale, func(t *testing.T) {
			assert.Equal(t, want, BaseLanguage(locale))
		})
	}
	assert.Equal(t, "en_US", New("en_US").Locale())

	// Locales x/text rejects fall back to everything before the last separator.
	assert.Equal(t, "nb_custom", BaseLanguage("nb_custom_variant1234567"))
}
