package wire

import "errors"

var (
	ErrBadName          = errors.New("wire: not a well-formed Name element")
	ErrPrefixTooLong    = errors.New("wire: prefix_comps exceeds name's component count")
	ErrNotEnoughBytes   = errors.New("wire: truncated element")
)

// componentHeaderLen is the fixed encoding overhead of a leaf element:
// tag(1) + length(2) + closer(1).
const componentHeaderLen = 4

// BuildName encodes a Name element (TagName open, one Component or
// ImplicitDigestComp leaf per entry, TagName closer) from raw
// component value bytes. A component with len(comps[i])==32 and
// digestLast set encodes the last entry as an implicit SHA-256 digest
// component instead of a generic one.
func BuildName(comps [][]byte, digestLast bool) ([]byte, error) {
	c := NewCharbuf()
	c.AppendOpen(TagName)
	for i, comp := range comps {
		tag := TagComponent
		if digestLast && i == len(comps)-1 && len(comp) == 32 {
			tag = TagImplicitDigestComp
		}
		if err := c.AppendBlob(tag, comp); err != nil {
			return nil, err
		}
	}
	c.AppendCloser()
	return c.Bytes(), nil
}

// componentEnd returns the offset just past the leaf element (tag,
// length, value, closer) starting at off, or an error if off does not
// point at a well-formed Component or ImplicitDigestComp.
func componentEnd(name []byte, off int) (int, error) {
	if off >= len(name) {
		return 0, ErrNotEnoughBytes
	}
	tag := name[off]
	if tag != TagComponent && tag != TagImplicitDigestComp {
		return 0, ErrBadName
	}
	return leafEnd(name, off)
}

// PrefixEnd walks the encoded Name element name (starting at its
// TagName open byte) and returns the offset, measured from the start
// of name, of the end of the prefixComps'th component.
//
// prefixComps < 0 means "the whole name". When omitPossibleDigest is
// set and the trailing component consumed has a 32-byte value and is
// the name's last component (componentHeaderLen+32 bytes just before
// the Name closer), that component is excluded from the returned
// prefix (a possible implicit digest is not part of a name "prefix"
// for matching purposes). Only the size is checked: a generic
// Component with a 32-byte value is excluded the same way as an
// ImplicitDigestComp.
func PrefixEnd(name []byte, prefixComps int, omitPossibleDigest bool) (int, error) {
	if len(name) < 2 || name[0] != TagName {
		return -1, ErrBadName
	}
	cursor := 1 // just past the Name open tag
	prevAns := cursor
	ans := cursor
	count := 0
	for cursor < len(name) && (name[cursor] == TagComponent || name[cursor] == TagImplicitDigestComp) {
		end, err := componentEnd(name, cursor)
		if err != nil {
			return -1, err
		}
		cursor = end
		count++
		if prefixComps < 0 || count <= prefixComps {
			prevAns = ans
			ans = cursor
		}
	}
	if cursor >= len(name) || name[cursor] != closerTag {
		return -1, ErrBadName
	}
	if prefixComps >= 0 && count < prefixComps {
		return -1, ErrPrefixTooLong
	}
	if omitPossibleDigest && ans == prevAns+componentHeaderLen+32 && ans == len(name)-1 {
		return prevAns, nil
	}
	return ans, nil
}

// ComponentEnds returns, for every component in the encoded Name
// element name, the offset (from the start of name) just past that
// component, deepest component last. Used by the dispatcher to walk
// prefixes from longest to shortest.
func ComponentEnds(name []byte) ([]int, error) {
	if len(name) < 2 || name[0] != TagName {
		return nil, ErrBadName
	}
	cursor := 1
	var ends []int
	for cursor < len(name) && (name[cursor] == TagComponent || name[cursor] == TagImplicitDigestComp) {
		end, err := componentEnd(name, cursor)
		if err != nil {
			return nil, err
		}
		ends = append(ends, end)
		cursor = end
	}
	if cursor >= len(name) || name[cursor] != closerTag {
		return nil, ErrBadName
	}
	return ends, nil
}
