// Package flatkey encodes positions in a configuration tree as flat string
// keys and decodes them back. A key looks like
//
//	/interfaces/interface=eth0/mtu
//
// where each segment is a node name, optionally followed by an instance
// selector: "=v1,v2" for a list (one percent-encoded value per declared key
// leaf, in declaration order) and "=v" for a leaf-list entry. The segment
// separator, the selector markers and the escape character themselves are
// always percent-encoded inside values, so splitting on "/", "=" and "," is
// unambiguous.
package flatkey

import "strings"

// Sep separates path segments in a flat key.
const Sep = "/"

// Segment is one decoded path segment: a node name plus the raw instance
// values, if any. Values is nil for plain (container/leaf) segments and
// non-nil, possibly length 1, for list and leaf-list instance segments.
type Segment struct {
	Name   string
	Values []string
}

// IsInstance reports whether the segment carries an instance selector.
func (s Segment) IsInstance() bool { return s.Values != nil }

// EncodeSegment renders a plain segment with no instance selector.
func EncodeSegment(name string) string { return name }

// EncodeInstance renders a segment with an instance selector, percent-encoding
// each value. Used for list instances (one value per key leaf) and leaf-list
// entries (a single value).
func EncodeInstance(name string, values []string) string {
	var b strings.Builder
	b.WriteString(name)
	for i, v := range values {
		if i == 0 {
			b.WriteByte('=')
		} else {
			b.WriteByte(',')
		}
		b.WriteString(Escape(v))
	}
	return b.String()
}

// DecodeSegment splits a raw segment into its name and percent-decoded
// instance values. The name part is everything before the first "=".
func DecodeSegment(raw string) (Segment, error) {
	name, rest, found := strings.Cut(raw, "=")
	if !found {
		return Segment{Name: name}, nil
	}
	parts := strings.Split(rest, ",")
	values := make([]string, len(parts))
	for i, p := range parts {
		v, err := Unescape(p)
		if err != nil {
			return Segment{}, err
		}
		values[i] = v
	}
	return Segment{Name: name, Values: values}, nil
}

// Split breaks a flat key into its raw segments, dropping the empty segment
// before the leading separator. Split("/x/y=1") returns ["x", "y=1"].
func Split(key string) []string {
	return strings.Split(strings.TrimPrefix(key, Sep), Sep)
}

// Join appends an encoded segment to a parent key. The root parent is the
// empty string, so Join("", "x") is "/x".
func Join(parent, segment string) string {
	return parent + Sep + segment
}
