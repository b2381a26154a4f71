package wire

import "errors"

// closerTag terminates the innermost open structured element. It is
// reserved and can never be used as an element tag.
const closerTag byte = 0x00

// Structured (container) element tags: a single tag byte, nested
// children, then a closerTag.
const (
	TagInterest      byte = 0x01
	TagContentObject byte = 0x02
	TagName          byte = 0x03
	TagSignedInfo    byte = 0x04
	TagKeyLocator    byte = 0x05
	TagKeyName       byte = 0x06
	TagSignature     byte = 0x07
)

// Leaf (blob) element tags: a tag byte, a big-endian uint16 length,
// that many value bytes, then a closerTag (see Charbuf.AppendBlob).
const (
	TagComponent              byte = 0x08
	TagImplicitDigestComp     byte = 0x09 // 32-byte sha256 digest component
	TagNameComponentCount     byte = 0x0A // big-endian uint32
	TagNonce                  byte = 0x0B
	TagInterestLifetime       byte = 0x0C // big-endian uint64 microseconds
	TagMinSuffixComponents    byte = 0x0D
	TagMaxSuffixComponents    byte = 0x0E
	TagChildSelector          byte = 0x0F
	TagMustBeFresh            byte = 0x10 // zero-length presence flag
	TagExclude                byte = 0x11
	TagScope                  byte = 0x12
	TagOther                  byte = 0x13 // opaque passthrough region
	TagPublisherPublicKeyDigest byte = 0x14
	TagContentType            byte = 0x15 // 1 byte enum
	TagFreshnessSeconds       byte = 0x16 // big-endian uint32
	TagFinalBlockID           byte = 0x17
	TagContent                byte = 0x18
	TagKey                    byte = 0x19 // inline public key (DER/PKIX)
	TagCertificate            byte = 0x1A // inline certificate (unsupported)
	TagSignatureBits          byte = 0x1B
	TagDigestAlgorithm        byte = 0x1C
	TagKeyLocatorPublisher    byte = 0x1D // PublisherPublicKeyDigest under KeyName
)

// ContentType is the enumerated type carried in a ContentObject's
// SignedInfo.
type ContentType byte

const (
	ContentTypeData ContentType = iota
	ContentTypeEncr
	ContentTypeGone
	ContentTypeKey
	ContentTypeLink
	ContentTypeNack
)

var (
	ErrValueTooLong  = errors.New("wire: blob value exceeds 65535 bytes")
	ErrMalformed     = errors.New("wire: malformed element")
	ErrWrongTopLevel = errors.New("wire: not a recognized top-level message")
)
