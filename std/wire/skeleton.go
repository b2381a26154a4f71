package wire

// subState is the skeleton decoder's sub-state while inside a partially
// read element: whether it is waiting for a tag byte, the two length
// bytes of a blob, or is in the middle of skipping a blob's value.
type subState int

const (
	subExpectTag subState = iota
	subExpectLenHi
	subExpectLenLo
	subSkipBlob
	subExpectLeafCloser
)

// SkeletonDecoder incrementally recognizes complete top-level elements
// in a byte stream without parsing their contents. It is resumable:
// each Decode call may be fed an arbitrarily-chopped tail of the
// stream, and the decoder remembers exactly how far it got.
//
// This is the Go analogue of the original library's
// ccn_skeleton_decoder: Index is the absolute offset (into whatever
// buffer the caller is assembling) of how much has been recognized so
// far. When State() reports Complete, bytes [0, Index) form exactly
// one complete top-level message.
type SkeletonDecoder struct {
	Index int

	depth   int
	sub     subState
	lenHi   byte
	blobLeft int
}

// State describes where the decoder is relative to a complete message.
type State int

const (
	// StateComplete means a full top-level message has just been
	// recognized, ending at Index.
	StateComplete State = iota
	// StateIncomplete means more bytes are needed before a complete
	// message can be recognized.
	StateIncomplete
	// StateError means the input cannot be a valid message.
	StateError
)

// Reset returns the decoder to its initial, between-messages state.
func (d *SkeletonDecoder) Reset() {
	*d = SkeletonDecoder{}
}

// State reports the decoder's current status.
func (d *SkeletonDecoder) State() State {
	if d.sub == subExpectTag && d.depth == 0 {
		return StateComplete
	}
	return StateIncomplete
}

// Decode advances the decoder as far as it can using buf, which must
// contain the full stream seen so far starting at offset 0 (i.e. the
// same growing buffer across calls, not just the newly arrived tail).
// It returns StateError if the bytes already consumed cannot possibly
// form a valid message.
func (d *SkeletonDecoder) Decode(buf []byte) State {
	for d.Index < len(buf) {
		switch d.sub {
		case subExpectTag:
			tag := buf[d.Index]
			d.Index++
			switch {
			case tag == closerTag:
				if d.depth == 0 {
					return StateError
				}
				d.depth--
				if d.depth == 0 {
					return StateComplete
				}
				// still inside an outer container; stay in subExpectTag
			case isContainerTag(tag):
				d.depth++
			case isLeafTag(tag):
				if d.depth == 0 {
					// Every message in this protocol starts with a
					// container tag (Interest or ContentObject); a bare
					// leaf at depth 0 cannot be a valid message.
					return StateError
				}
				d.sub = subExpectLenHi
			default:
				return StateError
			}
		case subExpectLenHi:
			d.lenHi = buf[d.Index]
			d.Index++
			d.sub = subExpectLenLo
		case subExpectLenLo:
			lenLo := buf[d.Index]
			d.Index++
			d.blobLeft = int(d.lenHi)<<8 | int(lenLo)
			if d.blobLeft == 0 {
				d.sub = subExpectLeafCloser
			} else {
				d.sub = subSkipBlob
			}
		case subSkipBlob:
			avail := len(buf) - d.Index
			if avail > d.blobLeft {
				avail = d.blobLeft
			}
			d.Index += avail
			d.blobLeft -= avail
			if d.blobLeft == 0 {
				d.sub = subExpectLeafCloser
			}
		case subExpectLeafCloser:
			if buf[d.Index] != closerTag {
				return StateError
			}
			d.Index++
			d.sub = subExpectTag
		}
	}
	return StateIncomplete
}

// Rebase adjusts Index after the caller has discarded off bytes from
// the front of its buffer (e.g. after moving a partial tail to the
// start for compaction).
func (d *SkeletonDecoder) Rebase(off int) {
	d.Index -= off
	if d.Index < 0 {
		d.Index = 0
	}
}

func isContainerTag(tag byte) bool {
	switch tag {
	case TagInterest, TagContentObject, TagName, TagSignedInfo,
		TagKeyLocator, TagKeyName, TagSignature:
		return true
	}
	return false
}

func isLeafTag(tag byte) bool {
	switch tag {
	case TagComponent, TagImplicitDigestComp, TagNameComponentCount,
		TagNonce, TagInterestLifetime, TagMinSuffixComponents,
		TagMaxSuffixComponents, TagChildSelector, TagMustBeFresh,
		TagExclude, TagScope, TagOther, TagPublisherPublicKeyDigest,
		TagContentType, TagFreshnessSeconds, TagFinalBlockID, TagContent,
		TagKey, TagCertificate, TagSignatureBits, TagDigestAlgorithm,
		TagKeyLocatorPublisher:
		return true
	}
	return false
}

// DecodeOne runs a SkeletonDecoder over buf from the start and reports
// whether buf holds exactly one complete top-level message (used by
// Put to validate what a caller hands to the outgoing framer).
func DecodeOne(buf []byte) bool {
	d := &SkeletonDecoder{}
	return d.Decode(buf) == StateComplete && d.Index == len(buf)
}
