// Package wikiz provides the content hook system used by the wiki renderer:
// a registry of callbacks keyed by owner type and event, with lookup that
// walks the owner type hierarchy from the most specific type upward.
//
// Pluggable behaviors register callbacks against well-known events during
// initialization. At render time an entity invokes the hooks for an event and
// receives the ordered fragments contributed for its type.
//
// Basic Usage:
//
//	registry := wikiz.New()
//	registry.DefineType("page", wikiz.Root)
//	registry.DefineType("wiki_page", "page")
//
//	registry.Register("page", "footer", func(self wikiz.Hookable, args ...any) (any, error) {
//		return "<p>footer</p>", nil
//	})
//
//	page := &wikiz.Base{Type: "wiki_page", Registry: registry}
//	html := wikiz.ContentHook(page, "footer") // "<p>footer</p>"
//
// Lookup Rules:
//
// Invocation starts at the runtime type of the invoking entity. All callbacks
// registered for that type and event run in registration order. The walk stops
// at the first type that has any registration entry for the event, even an
// empty one created with Declare, or at Root. Only a complete absence of an
// entry lets the walk climb to the parent type.
//
// Failure Handling:
//
// Invoke reports callback failures to its caller. InvokeSafe, and ContentHook
// built on top of it, never fail: any failure collapses the whole result into
// an escaped inline error marker so one broken hook cannot break a page.
//
// Lifecycle:
//
// A Registry is built once during initialization (DefineType, Register,
// Declare) and then shared read-mostly by concurrent renderers. Registries are
// never torn down.
package wikiz

// TypeID identifies a type in the single-rooted owner hierarchy.
type TypeID string

// Root is the universal root type. Every walk terminates here at the latest.
const Root TypeID = "object"

// Event represents a hook event identifier used in registration and invocation.
// This is a type alias for string so that package-level constants read naturally:
//
//	const (
//		PageHeader wikiz.Event = "page.header"
//		PageFooter wikiz.Event = "page.footer"
//	)
type Event = string
