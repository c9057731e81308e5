// Package scope implements the cactus-stack scope chain: a parent-pointer
// tree of lexical scopes stored in a single append-only arena and addressed
// by integer ID, rather than linked through pointers.
//
// This departs from the teacher's pointer-linked Scope{Parent *Scope}: the
// arena shape follows the Rust Arena<T>/Node<T> design in this language's
// original implementation, which indexes nodes by position in a Vec and
// threads `parent Option<usize>` rather than a direct reference. Lookup
// still walks the chain exactly the same way; only the storage differs.
package scope

import "github.com/amaji/cactus/objects"

// ID addresses one scope within an Arena. The zero ID is the global scope,
// created by New.
type ID int

type node struct {
	bindings  map[string]objects.Value
	parent    ID
	hasParent bool
}

// Arena owns every scope created during a run. Scopes are pushed as blocks
// are entered and popped as they exit: Truncate only shortens the slice back
// to a saved length and leaves the backing array allocated, the way a stack
// allocator reclaims space without freeing it.
type Arena struct {
	nodes []node
}

// New returns an Arena containing a single global scope, ID 0.
func New() *Arena {
	a := &Arena{}
	a.nodes = append(a.nodes, node{bindings: make(map[string]objects.Value)})
	return a
}

// Global is the ID of the scope New creates.
const Global ID = 0

// Len reports the arena's current logical length, i.e. one past the
// highest live scope ID. Callers save this before entering a block and
// restore it with Truncate after leaving, regardless of how the block exits.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Truncate discards every scope with index >= n, restoring the arena to a
// previously saved Len(). It is the cactus-stack equivalent of popping a
// linked scope back to its parent.
func (a *Arena) Truncate(n int) {
	a.nodes = a.nodes[:n]
}

// PushChild allocates a new scope whose parent is parent and returns its
// ID. The new scope is always appended at the end of the arena, so its ID
// equals the arena's length before the call.
func (a *Arena) PushChild(parent ID) ID {
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, node{
		bindings:  make(map[string]objects.Value),
		parent:    parent,
		hasParent: true,
	})
	return id
}

// Define binds name to value in scope id, shadowing any binding of the
// same name in an enclosing scope. Redeclaring a name already bound in id
// itself simply overwrites it.
func (a *Arena) Define(id ID, name string, value objects.Value) {
	a.nodes[id].bindings[name] = value
}

// Get looks up name starting at scope id and walking outward through
// parents until it is found, returning ok=false if no enclosing scope
// binds it.
func (a *Arena) Get(id ID, name string) (objects.Value, bool) {
	for {
		n := a.nodes[id]
		if v, ok := n.bindings[name]; ok {
			return v, true
		}
		if !n.hasParent {
			return nil, false
		}
		id = n.parent
	}
}

// Assign rebinds name to value in whichever scope in id's chain already
// defines it, returning ok=false if no scope in the chain defines name (in
// which case nothing is mutated).
func (a *Arena) Assign(id ID, name string, value objects.Value) bool {
	for {
		n := a.nodes[id]
		if _, ok := n.bindings[name]; ok {
			a.nodes[id].bindings[name] = value
			return true
		}
		if !n.hasParent {
			return false
		}
		id = n.parent
	}
}
