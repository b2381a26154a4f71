package wire

import "encoding/binary"

// ParsedContentObject is the result of parsing a ContentObject
// message: documented byte offsets into the original message, never a
// copy of its bytes.
type ParsedContentObject struct {
	Msg []byte

	BSignature, ESignature int
	BName, EName           int
	BSignedInfo, ESignedInfo int

	BPublisherPublicKeyDigest, EPublisherPublicKeyDigest int
	HasType                                              bool
	Type                                                  ContentType

	// BKeyLocator/EKeyLocator span the whole KeyLocator container
	// (zero-length range if absent). BKeyLocatorBody/EKeyLocatorBody
	// span whichever of Key, Certificate, or KeyName it holds.
	BKeyLocator, EKeyLocator         int
	BKeyLocatorBody, EKeyLocatorBody int
	KeyLocatorKind                   KeyLocatorKind

	// Valid only when KeyLocatorKind == KeyLocatorKindKeyName.
	BKeyNameName, EKeyNameName int
	BKeyNamePub, EKeyNamePub   int

	BContent, EContent int // value bytes only (no tag/len/closer)

	// E is the offset of the end of the whole ContentObject, i.e. the
	// position just past its closer — the original's CCN_PCO_E.
	E int
}

// KeyLocatorKind distinguishes the three possible KeyLocator bodies.
type KeyLocatorKind int

const (
	KeyLocatorKindNone KeyLocatorKind = iota
	KeyLocatorKindKey
	KeyLocatorKindCertificate
	KeyLocatorKindKeyName
)

// Name returns the encoded Name element.
func (p *ParsedContentObject) Name() []byte {
	return p.Msg[p.BName:p.EName]
}

// Content returns the Content payload bytes.
func (p *ParsedContentObject) Content() []byte {
	return p.Msg[p.BContent:p.EContent]
}

// SigCovered returns the byte range the Signature is computed over:
// everything from Name through Content, per this protocol's signing
// convention (the Signature element itself, which precedes Name, is
// excluded).
func (p *ParsedContentObject) SigCovered() []byte {
	return p.Msg[p.BName:p.EContent]
}

// PublisherPublicKeyDigest returns the raw digest bytes, or nil if absent.
func (p *ParsedContentObject) PublisherPublicKeyDigest() []byte {
	if p.BPublisherPublicKeyDigest == p.EPublisherPublicKeyDigest {
		return nil
	}
	return leafValue(p.Msg, p.BPublisherPublicKeyDigest)
}

// KeyBytes returns the inline public key bytes when KeyLocatorKind is
// KeyLocatorKindKey.
func (p *ParsedContentObject) KeyBytes() []byte {
	return leafValue(p.Msg, p.BKeyLocatorBody)
}

// KeyName returns the nested Name element when KeyLocatorKind is
// KeyLocatorKindKeyName.
func (p *ParsedContentObject) KeyName() []byte {
	return p.Msg[p.BKeyNameName:p.EKeyNameName]
}

// KeyNamePublisherDigest returns the KeyName's own
// PublisherPublicKeyDigest selector, or nil if absent.
func (p *ParsedContentObject) KeyNamePublisherDigest() []byte {
	if p.BKeyNamePub == p.EKeyNamePub {
		return nil
	}
	return leafValue(p.Msg, p.BKeyNamePub)
}

// ParseContentObject parses msg as a ContentObject, filling in
// documented byte offsets. comps, if non-nil, is reset and filled with
// the offset just past each name component, for prefix matching.
func ParseContentObject(msg []byte, comps *Indexbuf) (*ParsedContentObject, error) {
	if len(msg) < 2 || msg[0] != TagContentObject {
		return nil, ErrWrongTopLevel
	}
	cursor := 1

	p := &ParsedContentObject{Msg: msg}

	if cursor >= len(msg) || msg[cursor] != TagSignature {
		return nil, ErrMalformed
	}
	p.BSignature = cursor
	end, err := SkipElement(msg, cursor)
	if err != nil {
		return nil, err
	}
	p.ESignature = end
	cursor = end

	if cursor >= len(msg) || msg[cursor] != TagName {
		return nil, ErrMalformed
	}
	p.BName = cursor
	end, err = SkipElement(msg, cursor)
	if err != nil {
		return nil, err
	}
	p.EName = end
	cursor = end

	if comps != nil {
		comps.Reset()
		ends, err := ComponentEnds(msg[p.BName:p.EName])
		if err != nil {
			return nil, err
		}
		for _, e := range ends {
			comps.Append(p.BName + e)
		}
	}

	if cursor >= len(msg) || msg[cursor] != TagSignedInfo {
		return nil, ErrMalformed
	}
	p.BSignedInfo = cursor
	siEnd, err := SkipElement(msg, cursor)
	if err != nil {
		return nil, err
	}
	p.ESignedInfo = siEnd

	if err := parseSignedInfo(p, msg, cursor+1, siEnd-1); err != nil {
		return nil, err
	}
	cursor = siEnd

	if cursor >= len(msg) || msg[cursor] != TagContent {
		return nil, ErrMalformed
	}
	if cursor+3 > len(msg) {
		return nil, ErrNotEnoughBytes
	}
	valLen := int(msg[cursor+1])<<8 | int(msg[cursor+2])
	p.BContent = cursor + 3
	p.EContent = cursor + 3 + valLen
	end, err = leafEnd(msg, cursor)
	if err != nil {
		return nil, err
	}
	cursor = end

	if cursor >= len(msg) || msg[cursor] != closerTag {
		return nil, ErrMalformed
	}
	p.E = cursor + 1
	return p, nil
}

// parseSignedInfo walks the children of a SignedInfo element, found at
// msg[from:to) (excluding its own open/close bytes).
func parseSignedInfo(p *ParsedContentObject, msg []byte, from, to int) error {
	cursor := from
	for cursor < to {
		tag := msg[cursor]
		switch tag {
		case TagPublisherPublicKeyDigest:
			p.BPublisherPublicKeyDigest = cursor
			end, err := leafEnd(msg, cursor)
			if err != nil {
				return err
			}
			p.EPublisherPublicKeyDigest = end
			cursor = end
		case TagContentType:
			end, err := leafEnd(msg, cursor)
			if err != nil {
				return err
			}
			val := leafValue(msg, cursor)
			if len(val) == 1 {
				p.HasType = true
				p.Type = ContentType(val[0])
			}
			cursor = end
		case TagKeyLocator:
			p.BKeyLocator = cursor
			end, err := SkipElement(msg, cursor)
			if err != nil {
				return err
			}
			p.EKeyLocator = end
			if err := parseKeyLocator(p, msg, cursor+1, end-1); err != nil {
				return err
			}
			cursor = end
		default:
			end, err := SkipElement(msg, cursor)
			if err != nil {
				return err
			}
			cursor = end
		}
	}
	return nil
}

// parseKeyLocator identifies which of Key, Certificate, or KeyName the
// KeyLocator's children (msg[from:to)) hold.
func parseKeyLocator(p *ParsedContentObject, msg []byte, from, to int) error {
	if from >= to {
		return nil
	}
	tag := msg[from]
	switch tag {
	case TagKey:
		end, err := leafEnd(msg, from)
		if err != nil {
			return err
		}
		p.KeyLocatorKind = KeyLocatorKindKey
		p.BKeyLocatorBody, p.EKeyLocatorBody = from, end
	case TagCertificate:
		end, err := leafEnd(msg, from)
		if err != nil {
			return err
		}
		p.KeyLocatorKind = KeyLocatorKindCertificate
		p.BKeyLocatorBody, p.EKeyLocatorBody = from, end
	case TagKeyName:
		end, err := SkipElement(msg, from)
		if err != nil {
			return err
		}
		p.KeyLocatorKind = KeyLocatorKindKeyName
		p.BKeyLocatorBody, p.EKeyLocatorBody = from, end

		inner := from + 1
		if inner < end-1 && msg[inner] == TagName {
			nameEnd, err := SkipElement(msg, inner)
			if err != nil {
				return err
			}
			p.BKeyNameName, p.EKeyNameName = inner, nameEnd
			inner = nameEnd
		}
		if inner < end-1 && msg[inner] == TagKeyLocatorPublisher {
			pubEnd, err := leafEnd(msg, inner)
			if err != nil {
				return err
			}
			p.BKeyNamePub, p.EKeyNamePub = inner, pubEnd
		}
	}
	return nil
}

// encodeUint32 is a small helper shared by callers building
// NameComponentCount elements.
func encodeUint32(v int) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}
