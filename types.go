package wikiz

// DefineType records parent as the parent of child. Redefining a type
// replaces its parent. Root never has a parent; defining it is ignored.
//
// Types are typically defined once during initialization, mirroring the
// static class hierarchy of the content entities:
//
//	registry.DefineType("page", wikiz.Root)
//	registry.DefineType("wiki_page", "page")
//	registry.DefineType("tree_page", "page")
func (r *Registry) DefineType(child, parent TypeID) {
	if child == Root {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parents[child] = parent
}

// Parent returns the parent of t. It reports false for Root and for types
// that were never defined.
func (r *Registry) Parent(t TypeID) (TypeID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parent, ok := r.parents[t]
	return parent, ok
}

// Lineage returns t followed by its ancestors, most specific first.
// It ends at Root, at an undefined type, or before a type repeats.
func (r *Registry) Lineage(t TypeID) []TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lineage := []TypeID{t}
	seen := map[TypeID]struct{}{t: {}}
	for t != Root {
		parent, ok := r.parents[t]
		if !ok {
			break
		}
		if _, dup := seen[parent]; dup {
			break
		}
		seen[parent] = struct{}{}
		lineage = append(lineage, parent)
		t = parent
	}
	return lineage
}

// IsA reports whether t is ancestor or one of its descendants.
func (r *Registry) IsA(t, ancestor TypeID) bool {
	for _, candidate := range r.Lineage(t) {
		if candidate == ancestor {
			return true
		}
	}
	return false
}

