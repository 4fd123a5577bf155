package wikiz

import (
	"fmt"
	"html"
	"html/template"
)

// Hookable is implemented by any entity that can invoke content hooks.
//
// HookType returns the runtime type of the entity, where the lookup walk
// starts. Hooks returns the registry the entity's type was declared in.
//
// Entities usually embed Base instead of implementing Hookable by hand:
//
//	type Page struct {
//	    wikiz.Base
//	    Title string
//	}
//
//	page := &Page{Base: wikiz.Base{Type: "wiki_page", Registry: registry}}
//	footer := wikiz.ContentHook(page, "page.footer")
//
// Callbacks receive the invoking entity as self, so with the example above a
// callback can type-assert self to *Page to reach Title.
type Hookable interface {
	HookType() TypeID
	Hooks() *Registry
}

// Base is an embeddable Hookable implementation.
type Base struct {
	Type     TypeID
	Registry *Registry
}

// HookType returns the type tag of the entity.
func (b *Base) HookType() TypeID {
	if b == nil {
		return ""
	}
	return b.Type
}

// Hooks returns the registry of the entity.
func (b *Base) Hooks() *Registry {
	if b == nil {
		return nil
	}
	return b.Registry
}

// registryOf returns the registry of h, converting a panic in Hooks, as
// raised by a typed-nil entity without nil-safe methods, into an error.
func registryOf(h Hookable) (registry *Registry, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = newPanicError("", "", -1, recovered)
		}
	}()
	return h.Hooks(), nil
}

// InvokeHook runs the hooks for event on h and returns the results.
// Callback failures are reported, see Registry.Invoke.
func InvokeHook(h Hookable, event Event, args ...any) ([]any, error) {
	if h == nil {
		return nil, ErrNilReceiver
	}
	registry, err := registryOf(h)
	if err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, nil
	}
	return registry.Invoke(h, event, args...)
}

// ContentHook runs the hooks for event on h and returns the concatenated
// fragments as trusted HTML. It never fails; see Registry.InvokeSafe.
func ContentHook(h Hookable, event Event, args ...any) template.HTML {
	if h == nil {
		return template.HTML(ErrorMarker(ErrNilReceiver))
	}
	registry, err := registryOf(h)
	if err != nil {
		return template.HTML(ErrorMarker(err))
	}
	if registry == nil {
		return ""
	}
	return template.HTML(registry.InvokeSafe(h, event, args...))
}

// ErrorMarker renders err as an inline error element with the message escaped.
func ErrorMarker(err error) string {
	return `<span class="error">` + EscapeHTML(err.Error()) + `</span>`
}

// EscapeHTML returns the text form of v with <, >, &, ' and " escaped.
func EscapeHTML(v any) string {
	return html.EscapeString(Text(v))
}

// Text converts a hook result to text. nil becomes the empty string.
func Text(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case template.HTML:
		return string(value)
	case []byte:
		return string(value)
	case error:
		return value.Error()
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}
