package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	meta "github.com/yuin/goldmark-meta"
	"github.com/zoobzio/wikiz"
	"github.com/zoobzio/wikiz/i18n"
)

// Block produces the content a layout wraps.
type Block func() (string, error)

// Markup is the markup rendering collaborator. It renders template text
// with a bound receiver and locals. name labels the source in errors.
type Markup interface {
	Render(name, text string, self any, locals map[string]any, block Block) (string, error)
}

// MarkupFunc adapts a function to Markup.
type MarkupFunc func(name, text string, self any, locals map[string]any, block Block) (string, error)

// Render calls f.
func (f MarkupFunc) Render(name, text string, self any, locals map[string]any, block Block) (string, error) {
	return f(name, text, self, locals, block)
}

// View is the data an HTML template executes against.
type View struct {
	Self   any
	Locals map[string]any
}

// HTML renders html/template sources. Besides the standard functions,
// templates can call:
//
//	{{ t "greeting" "name" .Self.Name }}  translate with key/value params
//	{{ hook "page.footer" }}              content hook on the receiver
//	{{ escape .Locals.raw }}              explicit escaping
//	{{ yield }}                           the wrapped block, in layouts
type HTML struct {
	catalog *i18n.Catalog
}

// NewHTML returns an HTML markup translating through catalog, which may be nil.
func NewHTML(catalog *i18n.Catalog) *HTML {
	return &HTML{catalog: catalog}
}

// Render parses and executes text.
func (h *HTML) Render(name, text string, self any, locals map[string]any, block Block) (string, error) {
	tmpl, err := template.New(name).Funcs(h.funcs(self, block)).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	if locals == nil {
		locals = map[string]any{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, View{Self: self, Locals: locals}); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}
	return b.String(), nil
}

func (h *HTML) funcs(self any, block Block) template.FuncMap {
	return template.FuncMap{
		"t": func(key string, pairs ...any) (string, error) {
			params, err := pairsToParams(pairs)
			if err != nil {
				return "", err
			}
			return Translate(h.catalog, key, params), nil
		},
		"hook": func(event string, args ...any) template.HTML {
			hookable, ok := self.(wikiz.Hookable)
			if !ok {
				return ""
			}
			return wikiz.ContentHook(hookable, event, args...)
		},
		"escape": func(v any) string {
			return wikiz.EscapeHTML(v)
		},
		"yield": func() (template.HTML, error) {
			if block == nil {
				return "", nil
			}
			out, err := block()
			return template.HTML(out), err
		},
	}
}

func pairsToParams(pairs []any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("translation params must be key/value pairs, got %d values", len(pairs))
	}
	params := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("translation param key %v is not a string", pairs[i])
		}
		params[key] = pairs[i+1]
	}
	return params, nil
}

// Translate looks key up in catalog. A nil catalog behaves as an empty one.
func Translate(catalog *i18n.Catalog, key string, params map[string]any) string {
	if catalog == nil {
		return "#" + key
	}
	return catalog.Translate(key, params)
}

// Markdown converts Markdown sources to sanitized HTML. A leading YAML front
// matter block is stripped from the output and available through Meta. The
// receiver and locals are not used; a block, when given, is appended after
// the document.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdown returns a GitHub flavored Markdown markup with user generated
// content sanitization.
func NewMarkdown() *Markdown {
	return &Markdown{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM, meta.Meta)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts text.
func (m *Markdown) Render(name, text string, self any, locals map[string]any, block Block) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("convert %s: %w", name, err)
	}
	out := m.policy.Sanitize(buf.String())
	if block != nil {
		inner, err := block()
		if err != nil {
			return "", err
		}
		out += inner
	}
	return out, nil
}

// Meta returns the front matter of text, nil when there is none.
func (m *Markdown) Meta(name, text string) (map[string]any, error) {
	ctx := parser.NewContext()
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(text), &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}
	return meta.Get(ctx), nil
}
