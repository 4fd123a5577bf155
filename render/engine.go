// Package render ties template lookup, translation and content hooks
// together behind pluggable markup collaborators.
//
// An Engine renders named templates of a given kind through the Markup
// registered for that kind. Page renders an HTML template and wraps it in
// the layout template:
//
//	cache := templates.New(templates.WithPaths("views"))
//	catalog := i18n.New("en_US")
//	engine := render.New(cache, catalog)
//
//	html, err := engine.Page("show", page, render.Options{
//		Locals: map[string]any{"version": "1.2"},
//	})
package render

import (
	"errors"
	"fmt"

	"github.com/zoobzio/wikiz/i18n"
	"go.uber.org/zap"
)

// Template kinds registered by default.
const (
	KindHTML     = "html"
	KindMarkdown = "md"
)

// DefaultLayout is the template name Page wraps output in.
const DefaultLayout = "layout"

// ErrUnknownKind is returned when no Markup is registered for a kind.
var ErrUnknownKind = errors.New("unknown template kind")

// Resolver resolves template sources. *templates.Cache implements it.
type Resolver interface {
	Resolve(kind, name string) (string, error)
}

// Options controls a single render.
type Options struct {
	Locals   map[string]any // Values available as .Locals
	NoLayout bool           // Page skips the layout
	Layout   string         // Layout name overriding the engine default
}

// Option configures an Engine.
type Option func(*Engine)

// WithMarkup registers markup for kind, replacing any existing one.
func WithMarkup(kind string, markup Markup) Option {
	return func(e *Engine) {
		e.markups[kind] = markup
	}
}

// WithLayout sets the default layout template name.
func WithLayout(name string) Option {
	return func(e *Engine) {
		e.layout = name
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine renders templates. It holds no per-render state and is safe for
// concurrent use once configured.
type Engine struct {
	templates  Resolver
	catalog    *i18n.Catalog
	markups    map[string]Markup
	stylesheet Stylesheet
	style      string
	layout     string
	logger     *zap.Logger
}

// New creates an engine with HTML and Markdown markups registered.
func New(templates Resolver, catalog *i18n.Catalog, opts ...Option) *Engine {
	e := &Engine{
		templates: templates,
		catalog:   catalog,
		markups: map[string]Markup{
			KindHTML:     NewHTML(catalog),
			KindMarkdown: NewMarkdown(),
		},
		stylesheet: PlainCSS,
		style:      StyleCompact,
		layout:     DefaultLayout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog used for translation.
func (e *Engine) Catalog() *i18n.Catalog {
	return e.catalog
}

// Render renders the template name of kind with self as receiver.
// A missing template fails the render with an error matching
// templates.ErrNotFound.
func (e *Engine) Render(kind, name string, self any, opts Options) (string, error) {
	return e.render(kind, name, self, opts.Locals, nil)
}

// RenderInline renders text directly, without template lookup.
func (e *Engine) RenderInline(kind, text string, self any, opts Options) (string, error) {
	markup, ok := e.markups[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return markup.Render("inline "+kind, text, self, opts.Locals, nil)
}

// Page renders the HTML template name and, unless opts.NoLayout is set,
// renders the layout with the page output as its block.
func (e *Engine) Page(name string, self any, opts Options) (string, error) {
	out, err := e.Render(KindHTML, name, self, opts)
	if err != nil {
		return "", err
	}
	if opts.NoLayout {
		return out, nil
	}
	layout := e.layout
	if opts.Layout != "" {
		layout = opts.Layout
	}
	return e.render(KindHTML, layout, self, opts.Locals, func() (string, error) {
		return out, nil
	})
}

// Metadata is implemented by markups whose sources carry front matter.
type Metadata interface {
	Meta(name, text string) (map[string]any, error)
}

// Meta returns the front matter of the template name of kind. Markups that
// do not implement Metadata report none.
func (e *Engine) Meta(kind, name string) (map[string]any, error) {
	markup, ok := e.markups[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	source, err := e.templates.Resolve(kind, name)
	if err != nil {
		return nil, err
	}
	m, ok := markup.(Metadata)
	if !ok {
		return nil, nil
	}
	return m.Meta(name+"."+kind, source)
}

func (e *Engine) render(kind, name string, self any, locals map[string]any, block Block) (string, error) {
	markup, ok := e.markups[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	source, err := e.templates.Resolve(kind, name)
	if err != nil {
		e.logger.Debug("template resolution failed",
			zap.String("kind", kind),
			zap.String("name", name),
			zap.Error(err))
		return "", err
	}
	return markup.Render(name+"."+kind, source, self, locals, block)
}
