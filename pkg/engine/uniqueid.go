package engine

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/roach88/suitetree/pkg/tree"
)

// Segment types used in unique IDs.
const (
	SegmentEngine = "engine"
	SegmentSuite  = "suite"
	SegmentGroup  = string(tree.KindGroup)
	SegmentTest   = string(tree.KindTest)
)

// DefaultEngineID is the value of the first segment of every unique ID.
const DefaultEngineID = "suitetree"

// Segment is one step of a UniqueID.
type Segment struct {
	Type  string
	Value string
}

func (s Segment) String() string {
	return "[" + escape(s.Type) + ":" + escape(s.Value) + "]"
}

// UniqueID identifies a node within one run: the engine segment followed by
// one {kind, name} segment per node on the path from the root.
//
// A UniqueID is never modified in place; Append returns a new value.
type UniqueID []Segment

// NewUniqueID returns the engine-level ID.
func NewUniqueID(engineID string) UniqueID {
	return UniqueID{{Type: SegmentEngine, Value: engineID}}
}

// Append returns a copy of u extended by one segment.
func (u UniqueID) Append(typ, value string) UniqueID {
	out := make(UniqueID, len(u), len(u)+1)
	copy(out, u)
	return append(out, Segment{Type: typ, Value: value})
}

// AppendNode extends u with the node's kind and name.
func (u UniqueID) AppendNode(n tree.Node) UniqueID {
	return u.Append(string(n.Kind()), n.Name())
}

// Parent drops the last segment. The parent of a single-segment ID is nil.
func (u UniqueID) Parent() UniqueID {
	if len(u) <= 1 {
		return nil
	}
	return u[:len(u)-1 : len(u)-1]
}

// Last returns the final segment, or the zero Segment for an empty ID.
func (u UniqueID) Last() Segment {
	if len(u) == 0 {
		return Segment{}
	}
	return u[len(u)-1]
}

// Equal compares two IDs segment by segment.
func (u UniqueID) Equal(other UniqueID) bool {
	if len(u) != len(other) {
		return false
	}
	for i := range u {
		if u[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the ID as "[engine:suitetree]/[group:Calc]/[test:adds]".
// Reserved characters in types and values are percent-encoded.
func (u UniqueID) String() string {
	parts := make([]string, len(u))
	for i, s := range u {
		parts[i] = s.String()
	}
	return strings.Join(parts, "/")
}

// MarshalText implements encoding.TextMarshaler.
func (u UniqueID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UniqueID) UnmarshalText(text []byte) error {
	parsed, err := ParseUniqueID(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ParseUniqueID is the inverse of UniqueID.String.
func ParseUniqueID(s string) (UniqueID, error) {
	if s == "" {
		return nil, fmt.Errorf("parse unique id: empty string")
	}
	raw := strings.Split(s, "/")
	id := make(UniqueID, 0, len(raw))
	for i, part := range raw {
		if !strings.HasPrefix(part, "[") || !strings.HasSuffix(part, "]") {
			return nil, fmt.Errorf("parse unique id: segment %d %q is not bracketed", i, part)
		}
		body := part[1 : len(part)-1]
		typ, value, ok := strings.Cut(body, ":")
		if !ok {
			return nil, fmt.Errorf("parse unique id: segment %d %q has no type separator", i, part)
		}
		t, err := url.PathUnescape(typ)
		if err != nil {
			return nil, fmt.Errorf("parse unique id: segment %d: %w", i, err)
		}
		v, err := url.PathUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("parse unique id: segment %d: %w", i, err)
		}
		id = append(id, Segment{Type: t, Value: v})
	}
	return id, nil
}

var escaper = strings.NewReplacer(
	"%", "%25",
	"[", "%5B",
	"]", "%5D",
	":", "%3A",
	"/", "%2F",
)

func escape(s string) string {
	return escaper.Replace(s)
}
