package datastore

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/netopsio/treekv/internal/pathq"
	"github.com/netopsio/treekv/internal/schema"
	"github.com/netopsio/treekv/internal/store"
	"github.com/netopsio/treekv/internal/tree"
)

// Get reconstructs the configuration tree of db, prunes it down to the
// subtrees the path query selects (plus the ancestors needed to reach them),
// then populates schema defaults and reorders siblings into schema
// declaration order. An empty query or "/" returns the full tree; an empty
// database yields just the root container.
func (d *Datastore) Get(db, query string) (*tree.Arena, error) {
	path, err := d.dbPath(db)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	pairs, err := s.Scan()
	cerr := s.Close()
	if err != nil {
		return nil, err
	}
	if cerr != nil {
		return nil, cerr
	}

	a := tree.New(RootName)
	for _, p := range pairs {
		if err := d.addRecord(a, p.Key, p.Value); err != nil {
			return nil, err
		}
	}

	matches, err := pathq.Evaluate(a, d.schema, query)
	if err != nil {
		return nil, err
	}
	prune(a, d.schema, matches)

	a.ApplyDefaults(d.schema)
	a.SortBySchema(d.schema)
	return a, nil
}

// prune discards every subtree that is neither selected nor an ancestor of a
// selected node. A selection containing the root keeps the whole tree. List
// instances retained as ancestors keep their declared key leaves so the
// result still identifies which instance was matched.
func prune(a *tree.Arena, st *schema.Tree, matches []tree.ID) {
	marks := roaring.New()
	for _, id := range matches {
		if id == a.Root() {
			return
		}
		marks.Add(id)
	}
	root := a.Root()
	children := append([]tree.ID(nil), a.Children(root)...)
	for _, c := range children {
		if !pruneSubtree(a, c, st.ResolveTop(a.Name(c)), marks) {
			a.RemoveChild(root, c)
		}
	}
}

// pruneSubtree reports whether id must be kept: it is marked or some
// descendant is. Marked nodes keep their whole subtree. Unkept children are
// detached on the way back up; key leaves of a kept list instance are never
// detached.
func pruneSubtree(a *tree.Arena, id tree.ID, sn *schema.Node, marks *roaring.Bitmap) bool {
	if marks.Contains(id) {
		return true
	}
	keep := false
	var keyLeaves []tree.ID
	children := append([]tree.ID(nil), a.Children(id)...)
	for _, c := range children {
		if sn != nil && sn.Kind == schema.List && sn.IsKey(a.Name(c)) {
			if marks.Contains(c) {
				keep = true
			}
			keyLeaves = append(keyLeaves, c)
			continue
		}
		var cs *schema.Node
		if sn != nil {
			cs = sn.ResolveChild(a.Name(c))
		}
		if pruneSubtree(a, c, cs, marks) {
			keep = true
		} else {
			a.RemoveChild(id, c)
		}
	}
	if !keep {
		for _, c := range keyLeaves {
			a.RemoveChild(id, c)
		}
	}
	return keep
}
