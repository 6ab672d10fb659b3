// Package pathq evaluates path queries over a configuration tree. The query
// grammar is the flat-key grammar itself: "/" matches the root, and
// "/x/y=1,3/c" walks container x, the list-y instance keyed (1,3), leaf c.
// A list or leaf-list segment without an instance selector fans out to every
// instance. Queries are filters: segments that match nothing yield an empty
// result rather than an error.
package pathq

import (
	"github.com/netopsio/treekv/internal/flatkey"
	"github.com/netopsio/treekv/internal/schema"
	"github.com/netopsio/treekv/internal/tree"
)

// Evaluate returns the ids of every node the query selects. An empty query or
// "/" selects the root itself.
func Evaluate(a *tree.Arena, st *schema.Tree, query string) ([]tree.ID, error) {
	if query == "" || query == flatkey.Sep {
		return []tree.ID{a.Root()}, nil
	}
	segs := make([]flatkey.Segment, 0, 4)
	for _, raw := range flatkey.Split(query) {
		seg, err := flatkey.DecodeSegment(raw)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}

	current := []tree.ID{a.Root()}
	var sn *schema.Node
	for i, seg := range segs {
		if i == 0 {
			sn = st.ResolveTop(seg.Name)
		} else if sn != nil {
			sn = sn.ResolveChild(seg.Name)
		}
		if sn == nil {
			return nil, nil
		}
		var next []tree.ID
		for _, id := range current {
			next = append(next, matchChildren(a, id, sn, seg)...)
		}
		if len(next) == 0 {
			return nil, nil
		}
		current = next
	}
	return current, nil
}

func matchChildren(a *tree.Arena, parent tree.ID, sn *schema.Node, seg flatkey.Segment) []tree.ID {
	var out []tree.ID
	switch sn.Kind {
	case schema.List:
		if seg.IsInstance() {
			if len(seg.Values) != len(sn.Keys) {
				return nil
			}
			if id := a.FindListInstance(parent, seg.Name, sn.Keys, seg.Values); id != tree.Invalid {
				out = append(out, id)
			}
			return out
		}
		for _, c := range a.Children(parent) {
			if a.Name(c) == seg.Name {
				out = append(out, c)
			}
		}
	case schema.LeafList:
		ll := a.FindChild(parent, seg.Name)
		if ll == tree.Invalid {
			return nil
		}
		if !seg.IsInstance() {
			return []tree.ID{ll}
		}
		if len(seg.Values) != 1 {
			return nil
		}
		if id := a.FindChildWithBody(ll, seg.Name, seg.Values[0]); id != tree.Invalid {
			out = append(out, id)
		}
	default:
		if seg.IsInstance() {
			return nil
		}
		if id := a.FindChild(parent, seg.Name); id != tree.Invalid {
			out = append(out, id)
		}
	}
	return out
}
