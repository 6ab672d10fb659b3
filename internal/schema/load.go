package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// HCL block shapes. Block labels carry node names; nesting mirrors the
// schema tree. Example:
//
//	container "x" {
//	  list "y" {
//	    key = ["a", "b"]
//	    leaf "a" {}
//	    leaf "b" {}
//	    leaf "c" {}
//	  }
//	  leaf_list "z" {}
//	}
type hclBody struct {
	Containers []hclContainer `hcl:"container,block"`
	Lists      []hclList      `hcl:"list,block"`
	LeafLists  []hclLeafList  `hcl:"leaf_list,block"`
	Leaves     []hclLeaf      `hcl:"leaf,block"`
}

type hclContainer struct {
	Name       string         `hcl:"name,label"`
	Containers []hclContainer `hcl:"container,block"`
	Lists      []hclList      `hcl:"list,block"`
	LeafLists  []hclLeafList  `hcl:"leaf_list,block"`
	Leaves     []hclLeaf      `hcl:"leaf,block"`
}

type hclList struct {
	Name       string         `hcl:"name,label"`
	Key        []string       `hcl:"key"`
	Containers []hclContainer `hcl:"container,block"`
	Lists      []hclList      `hcl:"list,block"`
	LeafLists  []hclLeafList  `hcl:"leaf_list,block"`
	Leaves     []hclLeaf      `hcl:"leaf,block"`
}

type hclLeafList struct {
	Name string `hcl:"name,label"`
}

type hclLeaf struct {
	Name    string  `hcl:"name,label"`
	Default *string `hcl:"default,optional"`
}

// LoadFile reads a schema from an HCL file on disk.
func LoadFile(path string) (*Tree, error) {
	var body hclBody
	if err := hclsimple.DecodeFile(path, nil, &body); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	return assemble(&body)
}

// Load parses a schema from an in-memory HCL document. The filename is used
// only for diagnostics and must carry a .hcl suffix for hclsimple to pick the
// native syntax parser.
func Load(filename string, src []byte) (*Tree, error) {
	var body hclBody
	if err := hclsimple.Decode(filename, src, nil, &body); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", filename, err)
	}
	return assemble(&body)
}

func assemble(body *hclBody) (*Tree, error) {
	top, err := buildChildren(body.Containers, body.Lists, body.LeafLists, body.Leaves)
	if err != nil {
		return nil, err
	}
	return &Tree{Top: top}, nil
}

func buildChildren(cs []hclContainer, ls []hclList, lls []hclLeafList, leaves []hclLeaf) ([]*Node, error) {
	var out []*Node
	for i := range cs {
		n, err := buildContainer(&cs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	for i := range ls {
		n, err := buildList(&ls[i])
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	for i := range lls {
		out = append(out, &Node{Name: lls[i].Name, Kind: LeafList})
	}
	for i := range leaves {
		n := &Node{Name: leaves[i].Name, Kind: Leaf}
		if leaves[i].Default != nil {
			n.Default = *leaves[i].Default
		}
		out = append(out, n)
	}
	seen := make(map[string]bool, len(out))
	for _, n := range out {
		if seen[n.Name] {
			return nil, fmt.Errorf("duplicate sibling node %q in schema", n.Name)
		}
		seen[n.Name] = true
	}
	return out, nil
}

func buildContainer(c *hclContainer) (*Node, error) {
	children, err := buildChildren(c.Containers, c.Lists, c.LeafLists, c.Leaves)
	if err != nil {
		return nil, err
	}
	return &Node{Name: c.Name, Kind: Container, Children: children}, nil
}

func buildList(l *hclList) (*Node, error) {
	if len(l.Key) == 0 {
		return nil, fmt.Errorf("list %q declares no key", l.Name)
	}
	children, err := buildChildren(l.Containers, l.Lists, l.LeafLists, l.Leaves)
	if err != nil {
		return nil, err
	}
	n := &Node{Name: l.Name, Kind: List, Keys: l.Key, Children: children}
	for _, k := range l.Key {
		kc := n.ResolveChild(k)
		if kc == nil || kc.Kind != Leaf {
			return nil, fmt.Errorf("list %q key %q is not a declared leaf child", l.Name, k)
		}
	}
	return n, nil
}
