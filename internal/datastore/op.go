package datastore

import "fmt"

// Op is a mutation operation applied while flattening a tree into the store.
// An "operation" attribute on a tree node overrides the ambient Op for that
// node and its descendants.
type Op uint8

const (
	OpNone Op = iota
	OpMerge
	OpReplace
	OpCreate
	OpDelete
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpMerge:
		return "merge"
	case OpReplace:
		return "replace"
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	case OpRemove:
		return "remove"
	}
	return "unknown"
}

// ParseOp maps the wire spelling of an operation to its Op.
func ParseOp(s string) (Op, error) {
	switch s {
	case "none":
		return OpNone, nil
	case "merge":
		return OpMerge, nil
	case "replace":
		return OpReplace, nil
	case "create":
		return OpCreate, nil
	case "delete":
		return OpDelete, nil
	case "remove":
		return OpRemove, nil
	}
	return OpNone, fmt.Errorf("unknown operation %q", s)
}
