// Package i18n holds the merged locale string catalog used by renderers.
//
// Locale files are flat YAML mappings from translation key to message.
// Messages may contain #{name} placeholders:
//
//	greeting: "Hello #{name}"
//	page:
//	  edit: "Edit #{page}"   # flattened to "page.edit"
//
// Missing keys never fail: Translate returns "#" + key so the gap is
// visible on the page.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Placeholder is replaced by the locale code in LoadLocale patterns.
const Placeholder = "LANG"

var (
	placeholderPattern = regexp.MustCompile(`#\{(\w+)\}`)
	dialectPattern     = regexp.MustCompile(`^(\w+)[_-]`)
)

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used to report swallowed load failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithReadFile replaces the function used to read locale files.
func WithReadFile(readFile func(string) ([]byte, error)) Option {
	return func(c *Catalog) {
		c.readFile = readFile
	}
}

// Catalog is the in-memory merged key/value store of locale strings.
// It is safe for concurrent use.
type Catalog struct {
	locale   string
	logger   *zap.Logger
	readFile func(string) ([]byte, error)

	mu       sync.RWMutex
	messages map[string]string
	loaded   map[string]struct{}
}

// New creates an empty catalog for locale, e.g. "en_US", "pt-BR" or "de".
func New(locale string, opts ...Option) *Catalog {
	c := &Catalog{
		locale:   locale,
		logger:   zap.NewNop(),
		readFile: os.ReadFile,
		messages: make(map[string]string),
		loaded:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Locale returns the locale the catalog was created for.
func (c *Catalog) Locale() string {
	return c.locale
}

// BaseLanguage returns the language part of a dialect locale such as "en"
// for "en_US", or "" when locale has no region.
func BaseLanguage(locale string) string {
	normalized := strings.ReplaceAll(locale, "_", "-")
	if tag, err := language.Parse(normalized); err == nil {
		base, confidence := tag.Base()
		if confidence != language.No && base.String() != normalized && strings.Contains(normalized, "-") {
			return base.String()
		}
		return ""
	}
	if m := dialectPattern.FindStringSubmatch(locale); m != nil {
		return m[1]
	}
	return ""
}

// LoadLocale loads pattern with Placeholder substituted by the locale.
// For a dialect locale the base language file is loaded first and the
// dialect file second, so dialect messages override base messages.
// Failures are swallowed; see Load.
//
//	catalog.LoadLocale("locale/LANG.yml") // locale/en.yml, then locale/en_US.yml
func (c *Catalog) LoadLocale(pattern string) {
	if base := BaseLanguage(c.locale); base != "" {
		c.Load(strings.ReplaceAll(pattern, Placeholder, base))
	}
	c.Load(strings.ReplaceAll(pattern, Placeholder, c.locale))
}

// Load merges the locale file at path into the catalog, overwriting
// existing keys. Each path is merged at most once; later calls for an
// already loaded path are skipped even if the file changed. Load never
// fails: unreadable or malformed files are logged and leave the catalog
// unchanged, and may be retried.
func (c *Catalog) Load(path string) {
	resolved := filepath.Clean(path)

	c.mu.RLock()
	_, done := c.loaded[resolved]
	c.mu.RUnlock()
	if done {
		return
	}

	messages, err := c.parse(resolved)
	if err != nil {
		c.logger.Debug("locale load skipped", zap.String("path", resolved), zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, done := c.loaded[resolved]; done {
		return
	}
	for key, value := range messages {
		c.messages[key] = value
	}
	c.loaded[resolved] = struct{}{}
	c.logger.Debug("locale loaded", zap.String("path", resolved), zap.Int("messages", len(messages)))
}

// Loaded reports whether path has been merged.
func (c *Catalog) Loaded(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.loaded[filepath.Clean(path)]
	return ok
}

// Merge adds messages directly, overwriting existing keys.
func (c *Catalog) Merge(messages map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range messages {
		c.messages[key] = value
	}
}

// Has reports whether key is present.
func (c *Catalog) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.messages[key]
	return ok
}

// Len returns the number of messages.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Translate returns the message for key with each #{name} placeholder
// replaced by params[name]. Placeholders without a matching, non-nil param
// are left as written. A missing key yields "#" + key.
func (c *Catalog) Translate(key string, params map[string]any) string {
	c.mu.RLock()
	message, ok := c.messages[key]
	c.mu.RUnlock()
	if !ok {
		return "#" + key
	}
	if len(params) == 0 {
		return message
	}
	return placeholderPattern.ReplaceAllStringFunc(message, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := params[name]
		if !ok || value == nil {
			return match
		}
		return fmt.Sprint(value)
	})
}

func (c *Catalog) parse(path string) (map[string]string, error) {
	data, err := c.readFile(path)
	if err != nil {
		return nil, err
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	messages := make(map[string]string)
	if raw == nil {
		return messages, nil
	}
	if !flatten("", raw, messages) {
		return nil, fmt.Errorf("parse %s: top level is not a mapping", path)
	}
	return messages, nil
}

// flatten stores the scalars of the mapping in under dot-joined keys and
// reports whether in was a mapping. Non-string keys are stringified.
func flatten(prefix string, in any, out map[string]string) bool {
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}
	switch m := in.(type) {
	case map[string]any:
		for key, value := range m {
			store(join(key), value, out)
		}
	case map[any]any:
		for key, value := range m {
			store(join(fmt.Sprint(key)), value, out)
		}
	default:
		return false
	}
	return true
}

func store(key string, value any, out map[string]string) {
	if value == nil {
		out[key] = ""
		return
	}
	if !flatten(key, value, out) {
		out[key] = fmt.Sprint(value)
	}
}
