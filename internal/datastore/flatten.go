package datastore

import (
	"fmt"

	"github.com/netopsio/treekv/internal/flatkey"
	"github.com/netopsio/treekv/internal/schema"
	"github.com/netopsio/treekv/internal/store"
	"github.com/netopsio/treekv/internal/tree"
)

// Put flattens every top-level child of the tree into db under the given
// operation. OpReplace clears and reinitializes the whole database first,
// then stores the tree as a merge. There is no transaction boundary: a
// failure partway through a multi-key flatten leaves the records already
// written in place, exactly as a sequence of point writes would.
func (d *Datastore) Put(db string, op Op, a *tree.Arena) error {
	path, err := d.dbPath(db)
	if err != nil {
		return err
	}
	if op == OpReplace {
		if err := store.Init(path); err != nil {
			return err
		}
	}
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	for _, c := range a.Children(a.Root()) {
		sn := d.schema.ResolveTop(a.Name(c))
		if sn == nil {
			return fmt.Errorf("%q: %w", a.Name(c), ErrUnknownNode)
		}
		if err := d.flatten(s, a, c, sn, op, ""); err != nil {
			return err
		}
	}
	return nil
}

// flatten recursively applies op to one tree node and its descendants,
// threading the accumulated parent key explicitly through each call.
func (d *Datastore) flatten(s *store.Store, a *tree.Arena, id tree.ID, sn *schema.Node, op Op, parentKey string) error {
	if raw, ok := a.Attr(id, tree.OpAttr); ok {
		override, err := ParseOp(raw)
		if err != nil {
			return fmt.Errorf("node %q: %w", a.Name(id), err)
		}
		op = override
	}

	if sn.Kind == schema.LeafList {
		return d.flattenLeafList(s, a, id, op, parentKey)
	}

	segment, err := encodeSegment(a, id, sn)
	if err != nil {
		return err
	}
	key := flatkey.Join(parentKey, segment)

	var body *string
	if b, ok := a.Body(id); ok {
		body = &b
	}

	// Interior nodes of the supplied document are path steps toward the
	// operation's real targets: they are written through so the path exists,
	// but existence guards and subtree removal apply only at targets. Removing
	// a named list instance must not cascade over the container holding it.
	target := isTarget(a, id, sn)

	switch op {
	case OpCreate:
		if target {
			present, err := s.Exists(key)
			if err != nil {
				return err
			}
			if present {
				return fmt.Errorf("create %q: %w", key, ErrExists)
			}
		}
		if err := s.Set(key, body); err != nil {
			return err
		}
	case OpMerge, OpReplace:
		if err := s.Set(key, body); err != nil {
			return err
		}
	case OpDelete:
		if target {
			present, err := s.Exists(key)
			if err != nil {
				return err
			}
			if !present {
				return fmt.Errorf("delete %q: %w", key, ErrNotFound)
			}
			if err := d.remove(s, key, sn); err != nil {
				return err
			}
			if sn.Kind == schema.List || sn.Kind == schema.Container {
				return nil // whole subtree gone, skip recursion
			}
		}
	case OpRemove:
		if target {
			if err := d.remove(s, key, sn); err != nil {
				return err
			}
			if sn.Kind == schema.List || sn.Kind == schema.Container {
				return nil
			}
		}
	case OpNone:
	}

	for _, c := range a.Children(id) {
		cs := sn.ResolveChild(a.Name(c))
		if cs == nil {
			return fmt.Errorf("%q under %q: %w", a.Name(c), key, ErrUnknownNode)
		}
		if err := d.flatten(s, a, c, cs, op, key); err != nil {
			return err
		}
	}
	return nil
}

// isTarget reports whether the document names this node as an object of the
// operation rather than a path step toward one. Leaves always are; a list
// instance is a target when it carries nothing beyond its key leaves, which
// identify it; a container is a target only when given empty.
func isTarget(a *tree.Arena, id tree.ID, sn *schema.Node) bool {
	switch sn.Kind {
	case schema.Leaf:
		return true
	case schema.List:
		for _, c := range a.Children(id) {
			if !sn.IsKey(a.Name(c)) {
				return false
			}
		}
		return true
	default:
		return len(a.Children(id)) == 0
	}
}

// remove deletes a list or container subtree by prefix, or a single record
// otherwise.
func (d *Datastore) remove(s *store.Store, key string, sn *schema.Node) error {
	if sn.Kind == schema.List || sn.Kind == schema.Container {
		return s.DeletePrefix(key)
	}
	return s.Delete(key)
}

// flattenLeafList applies op to each entry of a leaf-list node. Entries are
// individually keyed (name=value), so each behaves like a leaf whose key
// carries its body. An entryless node under Remove or Delete clears every
// stored instance of the leaf-list by prefix; Delete additionally requires
// that at least one instance is stored.
func (d *Datastore) flattenLeafList(s *store.Store, a *tree.Arena, id tree.ID, op Op, parentKey string) error {
	name := a.Name(id)
	entries := a.Children(id)
	if len(entries) == 0 && (op == OpRemove || op == OpDelete) {
		key := flatkey.Join(parentKey, name)
		if op == OpDelete {
			stored, err := s.ScanPrefix(key)
			if err != nil {
				return err
			}
			if len(stored) == 0 {
				return fmt.Errorf("delete %q: %w", key, ErrNotFound)
			}
		}
		return s.DeletePrefix(key)
	}
	for _, e := range entries {
		body, ok := a.Body(e)
		if !ok {
			return fmt.Errorf("leaf-list %q entry without body under %q: %w", name, parentKey, ErrMissingKey)
		}
		key := flatkey.Join(parentKey, flatkey.EncodeInstance(name, []string{body}))
		switch op {
		case OpCreate:
			present, err := s.Exists(key)
			if err != nil {
				return err
			}
			if present {
				return fmt.Errorf("create %q: %w", key, ErrExists)
			}
			if err := s.Set(key, &body); err != nil {
				return err
			}
		case OpMerge, OpReplace:
			if err := s.Set(key, &body); err != nil {
				return err
			}
		case OpDelete:
			present, err := s.Exists(key)
			if err != nil {
				return err
			}
			if !present {
				return fmt.Errorf("delete %q: %w", key, ErrNotFound)
			}
			if err := s.Delete(key); err != nil {
				return err
			}
		case OpRemove:
			if err := s.Delete(key); err != nil {
				return err
			}
		case OpNone:
		}
	}
	return nil
}

// encodeSegment renders the flat-key segment of a tree node according to its
// schema kind. List instances read their declared key leaves from the tree;
// a missing key child is an error.
func encodeSegment(a *tree.Arena, id tree.ID, sn *schema.Node) (string, error) {
	switch sn.Kind {
	case schema.List:
		values := make([]string, len(sn.Keys))
		for i, k := range sn.Keys {
			kc := a.FindChild(id, k)
			if kc == tree.Invalid {
				return "", fmt.Errorf("list %q has no key %q child: %w", sn.Name, k, ErrMissingKey)
			}
			body, ok := a.Body(kc)
			if !ok {
				return "", fmt.Errorf("list %q key %q has no body: %w", sn.Name, k, ErrMissingKey)
			}
			values[i] = body
		}
		return flatkey.EncodeInstance(sn.Name, values), nil
	default:
		return flatkey.EncodeSegment(a.Name(id)), nil
	}
}
