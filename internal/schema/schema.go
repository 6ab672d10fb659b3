// Package schema models the configuration schema consumed by the datastore:
// a tree of typed nodes (container, list, leaf-list, leaf) with named children
// and, for lists, an ordered set of key leaves. Schemas are either built
// programmatically or loaded from HCL documents (see load.go).
package schema

// Kind is the closed set of schema node kinds. Every codec and flatten
// decision in the datastore switches exhaustively over it.
type Kind uint8

const (
	Container Kind = iota
	List
	LeafList
	Leaf
)

func (k Kind) String() string {
	switch k {
	case Container:
		return "container"
	case List:
		return "list"
	case LeafList:
		return "leaf-list"
	case Leaf:
		return "leaf"
	}
	return "unknown"
}

// Node is one named node in the schema tree. Children are ordered by
// declaration; sibling ordering of configuration data follows this order.
type Node struct {
	Name     string
	Kind     Kind
	Keys     []string // List only: key leaf names in declaration order
	Default  string   // Leaf only: optional default body
	Children []*Node
}

// Tree is the root of a loaded schema: the set of top-level datanodes.
type Tree struct {
	Top []*Node
}

// ResolveTop returns the top-level datanode with the given name, or nil.
func (t *Tree) ResolveTop(name string) *Node {
	for _, n := range t.Top {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// ResolveChild returns the named child datanode of parent, or nil.
func (n *Node) ResolveChild(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// IsKey reports whether name is one of the declared key leaves of a list.
func (n *Node) IsKey(name string) bool {
	for _, k := range n.Keys {
		if k == name {
			return true
		}
	}
	return false
}

// ChildIndex returns the declaration position of the named child, used to
// order configuration siblings. Unknown names sort last.
func (n *Node) ChildIndex(name string) int {
	for i, c := range n.Children {
		if c.Name == name {
			return i
		}
	}
	return len(n.Children)
}
