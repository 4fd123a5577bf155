// Package templates resolves template sources by kind and name from an
// ordered list of search paths, memoizing them in production mode.
package templates

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("template not found")

// NotFoundError reports that no search path contains name.kind.
type NotFoundError struct {
	Kind     string
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %s.%s not found in %s", e.Name, e.Kind, strings.Join(e.Searched, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Option configures a Cache during creation.
type Option func(*Cache)

// WithPaths sets the ordered search paths. Earlier paths win.
func WithPaths(paths ...string) Option {
	return func(c *Cache) {
		c.paths = append([]string(nil), paths...)
	}
}

// WithProduction enables permanent memoization of resolved templates.
func WithProduction(production bool) Option {
	return func(c *Cache) {
		c.production = production
	}
}

// WithFileSystem sets the filesystem templates are read from. Default is OS().
func WithFileSystem(fsys FileSystem) Option {
	return func(c *Cache) {
		c.fs = fsys
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

type key struct {
	kind string
	name string
}

// Cache maps (kind, name) to template source text.
//
// In production mode each resolved source is kept for the life of the
// process and never invalidated. In development mode every Resolve reads
// the file again so edits show up immediately. Safe for concurrent use;
// concurrent first resolutions of one key store the same content.
type Cache struct {
	fs         FileSystem
	logger     *zap.Logger
	paths      []string
	production bool

	mu      sync.RWMutex
	entries map[key]string
}

// New creates a template cache. Without WithPaths it searches "views".
func New(opts ...Option) *Cache {
	c := &Cache{
		fs:      OS(),
		logger:  zap.NewNop(),
		paths:   []string{"views"},
		entries: make(map[key]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Production reports whether memoization is enabled.
func (c *Cache) Production() bool {
	return c.production
}

// Paths returns a copy of the search paths.
func (c *Cache) Paths() []string {
	return append([]string(nil), c.paths...)
}

// Candidates returns the file paths probed for (kind, name), in order.
func (c *Cache) Candidates(kind, name string) []string {
	file := name + "." + kind
	out := make([]string, 0, len(c.paths))
	for _, dir := range c.paths {
		out = append(out, filepath.Join(dir, file))
	}
	return out
}

// Resolve returns the source of template name of the given kind, such as
// ("html", "layout") for layout.html. It fails with a *NotFoundError when
// no search path holds the file.
func (c *Cache) Resolve(kind, name string) (string, error) {
	if !c.production {
		return c.load(kind, name)
	}

	k := key{kind: kind, name: name}
	c.mu.RLock()
	source, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		return source, nil
	}

	source, err := c.load(kind, name)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[k] = source
	c.mu.Unlock()
	return source, nil
}

// Len returns the number of memoized templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) load(kind, name string) (string, error) {
	candidates := c.Candidates(kind, name)
	for _, candidate := range candidates {
		if !c.fs.Exists(candidate) {
			continue
		}
		data, err := c.fs.ReadFile(candidate)
		if err != nil {
			return "", fmt.Errorf("read template %s: %w", candidate, err)
		}
		c.logger.Debug("template loaded",
			zap.String("kind", kind),
			zap.String("name", name),
			zap.String("path", candidate),
			zap.Bool("production", c.production))
		return string(data), nil
	}
	return "", &NotFoundError{Kind: kind, Name: name, Searched: candidates}
}
