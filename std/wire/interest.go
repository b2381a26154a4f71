package wire

import "encoding/binary"

// ParsedInterest is the result of parsing an Interest message: the
// caller never gets a copy of the bytes, only these documented byte
// offsets into the original message (matching §6 of the
// specification: B_Name, E_Name, B_NameComponentCount,
// E_NameComponentCount, B_Nonce, B_OTHER, E_OTHER).
type ParsedInterest struct {
	Msg []byte

	BName, EName                             int
	BNameComponentCount, ENameComponentCount int
	BNonce, ENonce                           int
	BOther, EOther                           int

	// PrefixComps is the decoded NameComponentCount value, or -1 if
	// the element was absent (meaning "the whole name").
	PrefixComps int
}

// Name returns the encoded Name element (including its own open/close).
func (p *ParsedInterest) Name() []byte {
	return p.Msg[p.BName:p.EName]
}

// ParseInterest parses msg as an Interest, filling in the documented
// byte offsets. comps, if non-nil, is reset and filled with the
// offset (relative to msg) just past each name component, deepest
// last — the same shape the dispatcher needs for longest-to-shortest
// prefix matching.
func ParseInterest(msg []byte, comps *Indexbuf) (*ParsedInterest, error) {
	if len(msg) < 2 || msg[0] != TagInterest {
		return nil, ErrWrongTopLevel
	}
	cursor := 1

	if cursor >= len(msg) || msg[cursor] != TagName {
		return nil, ErrMalformed
	}
	bName := cursor
	eName, err := SkipElement(msg, cursor)
	if err != nil {
		return nil, err
	}
	cursor = eName

	if comps != nil {
		comps.Reset()
		ends, err := ComponentEnds(msg[bName:eName])
		if err != nil {
			return nil, err
		}
		for _, e := range ends {
			comps.Append(bName + e)
		}
	}

	p := &ParsedInterest{Msg: msg, BName: bName, EName: eName, PrefixComps: -1}

	p.BNameComponentCount = cursor
	if cursor < len(msg) && msg[cursor] == TagNameComponentCount {
		end, err := leafEnd(msg, cursor)
		if err != nil {
			return nil, err
		}
		val := leafValue(msg, cursor)
		if len(val) == 4 {
			p.PrefixComps = int(binary.BigEndian.Uint32(val))
		}
		cursor = end
	}
	p.ENameComponentCount = cursor

	// Walk selector elements until Nonce or the Interest closer.
	p.BNonce = cursor
	p.ENonce = cursor
	for cursor < len(msg) && msg[cursor] != closerTag {
		if msg[cursor] == TagNonce {
			p.BNonce = cursor
			end, err := leafEnd(msg, cursor)
			if err != nil {
				return nil, err
			}
			cursor = end
			p.ENonce = cursor
			break
		}
		end, err := SkipElement(msg, cursor)
		if err != nil {
			return nil, err
		}
		cursor = end
		p.BNonce = cursor
		p.ENonce = cursor
	}

	p.BOther = cursor
	for cursor < len(msg) && msg[cursor] != closerTag {
		end, err := SkipElement(msg, cursor)
		if err != nil {
			return nil, err
		}
		cursor = end
	}
	p.EOther = cursor

	if cursor >= len(msg) || msg[cursor] != closerTag {
		return nil, ErrMalformed
	}
	return p, nil
}
