package tree

import (
	"fmt"
	"strconv"

	"github.com/ohler55/ojg/oj"

	"github.com/netopsio/treekv/internal/schema"
)

// OpAttr is the node attribute carrying a per-subtree operation override.
// In JSON documents it is spelled as an "@operation" member of the object.
const OpAttr = "operation"

const opMember = "@operation"

// Export renders the tree as a generic JSON-ready document: containers and
// list instances become objects, lists and leaf-lists become arrays, leaves
// become strings. The result round-trips through Import for schema-conforming
// trees.
func (a *Arena) Export(st *schema.Tree) map[string]any {
	return a.exportChildren(a.Root(), func(name string) *schema.Node {
		return st.ResolveTop(name)
	})
}

func (a *Arena) exportChildren(id ID, resolve func(string) *schema.Node) map[string]any {
	out := make(map[string]any)
	for _, c := range a.Children(id) {
		name := a.Name(c)
		sn := resolve(name)
		if sn == nil {
			continue
		}
		switch sn.Kind {
		case schema.Leaf:
			body, _ := a.Body(c)
			out[name] = body
		case schema.LeafList:
			entries := make([]any, 0, len(a.Children(c)))
			for _, e := range a.Children(c) {
				body, _ := a.Body(e)
				entries = append(entries, body)
			}
			out[name] = entries
		case schema.List:
			arr, _ := out[name].([]any)
			out[name] = append(arr, a.exportChildren(c, sn.ResolveChild))
		case schema.Container:
			out[name] = a.exportChildren(c, sn.ResolveChild)
		}
	}
	return out
}

// ParseJSON parses a JSON document and imports it as a typed tree.
func ParseJSON(st *schema.Tree, rootName string, data []byte) (*Arena, error) {
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return Import(st, rootName, doc)
}

// Import builds a typed tree from a generic document (as produced by
// oj.Parse): objects for containers and list instances, arrays for lists and
// leaf-lists, scalars for leaves. An "@operation" object member becomes the
// node's operation attribute instead of a child.
func Import(st *schema.Tree, rootName string, doc any) (*Arena, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root must be an object, got %T", doc)
	}
	a := New(rootName)
	if err := a.importMembers(a.Root(), obj, func(name string) *schema.Node {
		return st.ResolveTop(name)
	}); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arena) importMembers(parent ID, obj map[string]any, resolve func(string) *schema.Node) error {
	if op, ok := obj[opMember].(string); ok {
		a.SetAttr(parent, OpAttr, op)
	}
	for name, v := range obj {
		if name == opMember {
			continue
		}
		sn := resolve(name)
		if sn == nil {
			return fmt.Errorf("document node %q not in schema", name)
		}
		switch sn.Kind {
		case schema.Leaf:
			s, err := scalarString(v)
			if err != nil {
				return fmt.Errorf("leaf %q: %w", name, err)
			}
			leaf := a.AddChild(parent, name, schema.Leaf)
			a.SetBody(leaf, s)
		case schema.LeafList:
			arr, ok := v.([]any)
			if !ok {
				return fmt.Errorf("leaf-list %q must be an array, got %T", name, v)
			}
			ll := a.AddChild(parent, name, schema.LeafList)
			for _, e := range arr {
				s, err := scalarString(e)
				if err != nil {
					return fmt.Errorf("leaf-list %q entry: %w", name, err)
				}
				entry := a.AddChild(ll, name, schema.Leaf)
				a.SetBody(entry, s)
			}
		case schema.List:
			arr, ok := v.([]any)
			if !ok {
				return fmt.Errorf("list %q must be an array, got %T", name, v)
			}
			for _, e := range arr {
				inst, ok := e.(map[string]any)
				if !ok {
					return fmt.Errorf("list %q instance must be an object, got %T", name, e)
				}
				id := a.AddChild(parent, name, schema.List)
				if err := a.importMembers(id, inst, sn.ResolveChild); err != nil {
					return err
				}
			}
		case schema.Container:
			child, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("container %q must be an object, got %T", name, v)
			}
			id := a.AddChild(parent, name, schema.Container)
			if err := a.importMembers(id, child, sn.ResolveChild); err != nil {
				return err
			}
		}
	}
	return nil
}

// scalarString renders a parsed JSON scalar as a body string. ojg yields
// int64 and float64 for numbers.
func scalarString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(s), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("unsupported scalar %T", v)
}
