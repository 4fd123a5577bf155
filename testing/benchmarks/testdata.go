package benchmarks

import (
	"fmt"
	"testing/fstest"

	"github.com/zoobzio/wikiz"
)

// TestPage is the receiver benchmarks invoke hooks on.
type TestPage struct {
	wikiz.Base
	Title string
}

// buildHierarchy declares depth types chained under Root and returns them
// from most generic to most specific.
func buildHierarchy(r *wikiz.Registry, depth int) []wikiz.TypeID {
	types := make([]wikiz.TypeID, depth)
	parent := wikiz.Root
	for i := range types {
		types[i] = wikiz.TypeID(fmt.Sprintf("type_%d", i))
		r.DefineType(types[i], parent)
		parent = types[i]
	}
	return types
}

// fragmentHook returns a callback producing a fixed-size fragment.
func fragmentHook(size int) wikiz.Callback {
	fragment := make([]byte, size)
	for i := range fragment {
		fragment[i] = 'a' + byte(i%26)
	}
	out := string(fragment)
	return func(self wikiz.Hookable, args ...any) (any, error) {
		return out, nil
	}
}

// generateViews returns a view tree with a layout and n templates.
func generateViews(n int) fstest.MapFS {
	views := fstest.MapFS{
		"views/layout.html": {Data: []byte(`<html><body>{{ yield }}{{ hook "page.footer" }}</body></html>`)},
	}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("views/page_%d.html", i)
		views[name] = &fstest.MapFile{Data: []byte(`<h1>{{ .Self.Title }}</h1><p>{{ t "edit" "page" .Self.Title }}</p>`)}
	}
	return views
}
