package datastore

import (
	"fmt"
	"strings"

	"github.com/netopsio/treekv/internal/flatkey"
	"github.com/netopsio/treekv/internal/schema"
	"github.com/netopsio/treekv/internal/tree"
)

// addRecord materializes one stored flat record into the tree under
// construction, creating intermediate containers, list instances and
// leaf-list entries as needed. Records arrive in arbitrary order and the
// walk is idempotent: re-adding a record finds the nodes it already created.
func (d *Datastore) addRecord(a *tree.Arena, key string, value *string) error {
	if !strings.HasPrefix(key, flatkey.Sep) {
		return fmt.Errorf("%q: %w", key, ErrMalformedKey)
	}
	raws := flatkey.Split(key)
	if len(raws) == 0 || raws[0] == "" {
		return fmt.Errorf("%q: %w", key, ErrMalformedKey)
	}

	cur := a.Root()
	var sn *schema.Node
	for i, raw := range raws {
		seg, err := flatkey.DecodeSegment(raw)
		if err != nil {
			return fmt.Errorf("%q: %w: %w", key, ErrMalformedKey, err)
		}
		if i == 0 {
			sn = d.schema.ResolveTop(seg.Name)
		} else {
			sn = sn.ResolveChild(seg.Name)
		}
		if sn == nil {
			return fmt.Errorf("%q in key %q: %w", seg.Name, key, ErrUnknownNode)
		}

		switch sn.Kind {
		case schema.List:
			// A record whose instance value count disagrees with the
			// schema key count is skipped, not failed: it tolerates
			// records written under an older schema revision.
			if len(seg.Values) != len(sn.Keys) {
				return nil
			}
			inst := a.FindListInstance(cur, seg.Name, sn.Keys, seg.Values)
			if inst == tree.Invalid {
				inst = a.AddChild(cur, seg.Name, schema.List)
				for j, k := range sn.Keys {
					leaf := a.AddChild(inst, k, schema.Leaf)
					a.SetBody(leaf, seg.Values[j])
				}
			}
			cur = inst
		case schema.LeafList:
			ll := a.FindChild(cur, seg.Name)
			if ll == tree.Invalid {
				ll = a.AddChild(cur, seg.Name, schema.LeafList)
			}
			if !seg.IsInstance() || len(seg.Values) != 1 {
				cur = ll
				break
			}
			entry := a.FindChildWithBody(ll, seg.Name, seg.Values[0])
			if entry == tree.Invalid {
				entry = a.AddChild(ll, seg.Name, schema.Leaf)
				a.SetBody(entry, seg.Values[0])
			}
			cur = entry
		default: // Leaf, Container
			c := a.FindChild(cur, seg.Name)
			if c == tree.Invalid {
				c = a.AddChild(cur, seg.Name, sn.Kind)
			}
			cur = c
		}
	}

	if value != nil {
		if _, has := a.Body(cur); !has {
			a.SetBody(cur, *value)
		}
	}
	return nil
}
