package wire

// leafEnd returns the offset just past the leaf element (tag, length,
// value, closer) assumed to start at off, regardless of which leaf
// tag it is.
func leafEnd(buf []byte, off int) (int, error) {
	if off+3 > len(buf) {
		return 0, ErrNotEnoughBytes
	}
	valLen := int(buf[off+1])<<8 | int(buf[off+2])
	end := off + 3 + valLen + 1
	if end > len(buf) {
		return 0, ErrNotEnoughBytes
	}
	if buf[end-1] != closerTag {
		return 0, ErrMalformed
	}
	return end, nil
}

// leafValue returns the value bytes of the leaf element starting at
// off (excluding tag, length, and closer).
func leafValue(buf []byte, off int) []byte {
	valLen := int(buf[off+1])<<8 | int(buf[off+2])
	return buf[off+3 : off+3+valLen]
}

// LeafValue is the exported form of leafValue, for callers outside the
// package (e.g. std/ccn's dispatcher, reading a Signature's
// SignatureBits) that already know off points at a well-formed leaf.
func LeafValue(buf []byte, off int) []byte {
	return leafValue(buf, off)
}

// SkipElement returns the offset just past the single element (leaf
// or container, possibly nested) starting at off.
func SkipElement(buf []byte, off int) (int, error) {
	if off >= len(buf) {
		return 0, ErrNotEnoughBytes
	}
	tag := buf[off]
	switch {
	case isLeafTag(tag):
		return leafEnd(buf, off)
	case isContainerTag(tag):
		cursor := off + 1
		for cursor < len(buf) && buf[cursor] != closerTag {
			next, err := SkipElement(buf, cursor)
			if err != nil {
				return 0, err
			}
			cursor = next
		}
		if cursor >= len(buf) {
			return 0, ErrNotEnoughBytes
		}
		return cursor + 1, nil
	default:
		return 0, ErrMalformed
	}
}
