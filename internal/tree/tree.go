// Package tree holds the in-memory representation of configuration data: an
// arena of nodes addressed by index. Each node records its parent index and an
// ordered slice of child indices, so pruning and mutation never chase raw
// pointers — ownership is the arena.
package tree

import (
	"sort"

	"github.com/netopsio/treekv/internal/schema"
)

// ID addresses a node inside an Arena. The root is always ID 0.
type ID = uint32

// Invalid is returned by lookups that find nothing.
const Invalid ID = ^ID(0)

type node struct {
	name     string
	kind     schema.Kind
	parent   ID
	children []ID
	body     string
	hasBody  bool
	attrs    map[string]string
}

// Arena owns every node of one configuration tree.
type Arena struct {
	nodes []node
}

// New creates an arena holding a single root container with the given name.
func New(rootName string) *Arena {
	return &Arena{nodes: []node{{name: rootName, kind: schema.Container, parent: Invalid}}}
}

// Root returns the id of the root container.
func (a *Arena) Root() ID { return 0 }

// Len returns the number of nodes in the arena, pruned or not.
func (a *Arena) Len() int { return len(a.nodes) }

func (a *Arena) Name(id ID) string      { return a.nodes[id].name }
func (a *Arena) Kind(id ID) schema.Kind { return a.nodes[id].kind }
func (a *Arena) Parent(id ID) ID        { return a.nodes[id].parent }

// valid reports whether id addresses a node. Invalid is never valid.
func (a *Arena) valid(id ID) bool { return id < ID(len(a.nodes)) }

// Children returns the ordered child ids of a node. The slice is owned by the
// arena; callers must not mutate it. Returns nil for out-of-range ids.
func (a *Arena) Children(id ID) []ID {
	if !a.valid(id) {
		return nil
	}
	return a.nodes[id].children
}

// Body returns the scalar body of a node, if set. Out-of-range ids have none,
// so a failed lookup chained into Body reads as a plain miss.
func (a *Arena) Body(id ID) (string, bool) {
	if !a.valid(id) {
		return "", false
	}
	n := &a.nodes[id]
	return n.body, n.hasBody
}

// SetBody attaches a scalar body to a node, replacing any previous one.
func (a *Arena) SetBody(id ID, body string) {
	a.nodes[id].body = body
	a.nodes[id].hasBody = true
}

// Attr returns a node attribute such as the per-node operation override.
func (a *Arena) Attr(id ID, key string) (string, bool) {
	if !a.valid(id) {
		return "", false
	}
	v, ok := a.nodes[id].attrs[key]
	return v, ok
}

// SetAttr sets a node attribute.
func (a *Arena) SetAttr(id ID, key, value string) {
	n := &a.nodes[id]
	if n.attrs == nil {
		n.attrs = make(map[string]string, 1)
	}
	n.attrs[key] = value
}

// AddChild appends a new child node and returns its id.
func (a *Arena) AddChild(parent ID, name string, kind schema.Kind) ID {
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, node{name: name, kind: kind, parent: parent})
	p := &a.nodes[parent]
	p.children = append(p.children, id)
	return id
}

// FindChild returns the first child with the given name, or Invalid. For list
// children, which may repeat, use FindListInstance instead. An out-of-range
// parent (including Invalid) finds nothing.
func (a *Arena) FindChild(parent ID, name string) ID {
	for _, c := range a.Children(parent) {
		if a.nodes[c].name == name {
			return c
		}
	}
	return Invalid
}

// FindChildWithBody returns the child with the given name whose body equals
// body, or Invalid. Used to locate leaf-list entries.
func (a *Arena) FindChildWithBody(parent ID, name, body string) ID {
	for _, c := range a.Children(parent) {
		n := &a.nodes[c]
		if n.name == name && n.hasBody && n.body == body {
			return c
		}
	}
	return Invalid
}

// FindListInstance returns the child list instance whose key leaves match
// values, compared pairwise against keys in order. Returns Invalid if no
// instance matches exactly.
func (a *Arena) FindListInstance(parent ID, name string, keys, values []string) ID {
	for _, c := range a.Children(parent) {
		if a.nodes[c].name != name {
			continue
		}
		match := true
		for i, k := range keys {
			kc := a.FindChild(c, k)
			if kc == Invalid {
				match = false
				break
			}
			body, ok := a.Body(kc)
			if !ok || body != values[i] {
				match = false
				break
			}
		}
		if match {
			return c
		}
	}
	return Invalid
}

// RemoveChild detaches a child from its parent. The node stays in the arena
// but is no longer reachable from the root.
func (a *Arena) RemoveChild(parent, child ID) {
	p := &a.nodes[parent]
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

// SortBySchema reorders siblings throughout the tree to match schema
// declaration order. Repeated list instances and leaf-list entries keep their
// relative order (the sort is stable).
func (a *Arena) SortBySchema(st *schema.Tree) {
	root := &a.nodes[a.Root()]
	sort.SliceStable(root.children, func(i, j int) bool {
		return topIndex(st, a.nodes[root.children[i]].name) < topIndex(st, a.nodes[root.children[j]].name)
	})
	for _, c := range root.children {
		if sn := st.ResolveTop(a.nodes[c].name); sn != nil {
			a.sortSubtree(c, sn)
		}
	}
}

func (a *Arena) sortSubtree(id ID, sn *schema.Node) {
	n := &a.nodes[id]
	sort.SliceStable(n.children, func(i, j int) bool {
		return sn.ChildIndex(a.nodes[n.children[i]].name) < sn.ChildIndex(a.nodes[n.children[j]].name)
	})
	for _, c := range n.children {
		if cs := sn.ResolveChild(a.nodes[c].name); cs != nil {
			a.sortSubtree(c, cs)
		}
	}
}

func topIndex(st *schema.Tree, name string) int {
	for i, n := range st.Top {
		if n.Name == name {
			return i
		}
	}
	return len(st.Top)
}

// ApplyDefaults populates missing leaf children that declare a schema default,
// under every container and list instance already present in the tree. Absent
// containers are not conjured.
func (a *Arena) ApplyDefaults(st *schema.Tree) {
	for _, c := range a.Children(a.Root()) {
		if sn := st.ResolveTop(a.Name(c)); sn != nil {
			a.defaultSubtree(c, sn)
		}
	}
}

func (a *Arena) defaultSubtree(id ID, sn *schema.Node) {
	if sn.Kind == schema.Container || sn.Kind == schema.List {
		for _, cs := range sn.Children {
			if cs.Kind != schema.Leaf || cs.Default == "" {
				continue
			}
			if a.FindChild(id, cs.Name) == Invalid {
				leaf := a.AddChild(id, cs.Name, schema.Leaf)
				a.SetBody(leaf, cs.Default)
			}
		}
	}
	for _, c := range a.Children(id) {
		if cs := sn.ResolveChild(a.Name(c)); cs != nil {
			a.defaultSubtree(c, cs)
		}
	}
}
