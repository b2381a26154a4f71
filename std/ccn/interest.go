package ccn

import (
	"time"

	"github.com/xuzhw/ccn-go/std/wire"
)

// interestMagic is the corruption-check sentinel (§3 "magic", §9
// "debugging artifacts of an untyped allocator"). Go's type system
// already guarantees an *Interest reached through the registry is
// never another type; when Config.Debug is set, this field only
// catches records that were not built by ExpressInterest (§12.4).
// Retirement leaves it unchanged.
const interestMagic = 0x494e5452 // "INTR"

// Interest is a record for one pending request (§3).
type Interest struct {
	magic uint32

	// interestMsg is the exact encoded Interest bytes as (re)sent;
	// stable for the record's lifetime so retransmissions are
	// byte-identical. Nil iff the record is awaiting deletion (§3
	// invariant).
	interestMsg []byte
	prefixKey   []byte // this record's bucket key, for sweep removal

	lastTime time.Time
	action   *Action

	target      int // desired outstanding count, 0 or 1
	outstanding int // actually outstanding count, 0 or 1

	// wantedPub is the publisher-public-key digest this Interest is
	// parked waiting for, or nil.
	wantedPub []byte
}

// Msg returns the Interest's stable wire encoding.
func (it *Interest) Msg() []byte { return it.interestMsg }

// ExpressInterest is C4's primary operation: builds and sends an
// Interest, registering it under its prefix key so matching
// ContentObjects can find it (§4.4).
//
// template, if non-nil, supplies the selector and "other" regions to
// splice into the built message (its Nonce is not copied); see
// buildInterestMsg.
func (h *Handle) ExpressInterest(name []byte, prefixComps int, action *Action, template []byte) (*Interest, error) {
	prefixEnd, err := wire.PrefixEnd(name, prefixComps, true)
	if err != nil {
		return nil, ErrInvalid
	}
	key := append([]byte(nil), name[1:prefixEnd]...)

	msg, err := buildInterestMsg(name, prefixComps, template)
	if err != nil {
		return nil, ErrInvalid
	}

	it := &Interest{
		magic:       interestMagic,
		interestMsg: msg,
		prefixKey:   key,
		action:      action,
		target:      1,
		outstanding: 0,
	}

	v, ok := h.interests.Get(key)
	var bucket *interestBucket
	if ok {
		bucket = v.(*interestBucket)
	} else {
		bucket = &interestBucket{}
		h.interests.Set(key, bucket)
	}
	bucket.list = append([]*Interest{it}, bucket.list...)

	h.refreshInterest(it)
	return it, nil
}

// buildInterestMsg concatenates the outer Interest tag, the Name
// bytes, an optional NameComponentCount element, the template's
// selector region (everything between end-of-NameComponentCount and
// start-of-Nonce, so selectors are carried without copying a nonce),
// the template's "other" region, and a closer (§4.4 step 2).
func buildInterestMsg(name []byte, prefixComps int, template []byte) ([]byte, error) {
	c := wire.NewCharbuf()
	c.AppendOpen(wire.TagInterest)
	c.Append(name)
	if prefixComps >= 0 {
		if err := c.AppendBlob(wire.TagNameComponentCount, encodePrefixComps(prefixComps)); err != nil {
			return nil, err
		}
	}

	if template != nil {
		tmpl, err := wire.ParseInterest(template, nil)
		if err != nil {
			return nil, ErrInvalid
		}
		c.Append(tmpl.Msg[tmpl.ENameComponentCount:tmpl.BNonce])
		c.Append(tmpl.Msg[tmpl.BOther:tmpl.EOther])
	}

	c.AppendCloser()
	return c.Bytes(), nil
}

func encodePrefixComps(n int) []byte {
	return []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

// retireInterest marks it for deletion without structurally modifying
// the registry (§5 "retirements are marked ... collected by the next
// scheduler sweep"): nulls the message and action, zeros target.
func (h *Handle) retireInterest(it *Interest) {
	if it.action != nil {
		it.action.Release(h)
		it.action = nil
	}
	it.interestMsg = nil
	it.target = 0
	it.outstanding = 0
}
