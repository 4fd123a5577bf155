package render

import "fmt"

// KindStylesheet is the template kind stylesheets are resolved under.
const KindStylesheet = "css"

// Stylesheet output styles.
const (
	StyleCompact = "compact"
	StyleNested  = "nested"
)

// StyleOptions is passed to the stylesheet compiler.
type StyleOptions struct {
	Style    string // Output style, StyleCompact unless overridden
	Filename string // Label for error messages, "name.css" or "inline css"
}

// Stylesheet is the stylesheet compiling collaborator.
type Stylesheet interface {
	Compile(source string, opts StyleOptions) (string, error)
}

// StylesheetFunc adapts a function to Stylesheet.
type StylesheetFunc func(source string, opts StyleOptions) (string, error)

// Compile calls f.
func (f StylesheetFunc) Compile(source string, opts StyleOptions) (string, error) {
	return f(source, opts)
}

// PlainCSS returns sources unchanged. It is the default compiler.
var PlainCSS = StylesheetFunc(func(source string, _ StyleOptions) (string, error) {
	return source, nil
})

// WithStylesheet sets the stylesheet compiler.
func WithStylesheet(compiler Stylesheet) Option {
	return func(e *Engine) {
		e.stylesheet = compiler
	}
}

// WithStyle sets the default output style passed to the compiler.
func WithStyle(style string) Option {
	return func(e *Engine) {
		e.style = style
	}
}

// Stylesheet resolves the stylesheet name and compiles it.
func (e *Engine) Stylesheet(name string) (string, error) {
	source, err := e.templates.Resolve(KindStylesheet, name)
	if err != nil {
		return "", err
	}
	return e.compile(source, name+"."+KindStylesheet)
}

// StylesheetInline compiles source directly.
func (e *Engine) StylesheetInline(source string) (string, error) {
	return e.compile(source, "inline "+KindStylesheet)
}

func (e *Engine) compile(source, label string) (string, error) {
	out, err := e.stylesheet.Compile(source, StyleOptions{Style: e.style, Filename: label})
	if err != nil {
		return "", fmt.Errorf("compile %s: %w", label, err)
	}
	return out, nil
}
