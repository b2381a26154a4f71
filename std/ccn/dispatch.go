package ccn

import (
	"bytes"

	"github.com/xuzhw/ccn-go/std/ccnsign"
	"github.com/xuzhw/ccn-go/std/wire"
)

// dispatchMessage is C6: classify msg as Interest or ContentObject,
// perform longest-to-shortest prefix lookup against the matching
// registry, and invoke upcalls (§4.5).
func (h *Handle) dispatchMessage(msg []byte) {
	h.running++
	defer func() { h.running-- }()

	if pi, err := wire.ParseInterest(msg, h.scratch); err == nil {
		h.dispatchInterest(msg, pi)
		return
	}
	if pco, err := wire.ParseContentObject(msg, h.scratch); err == nil {
		h.dispatchContentObject(msg, pco)
		return
	}
	// Neither parse succeeded: a malformed frame is dropped per-message
	// (§7 Protocol errors).
}

// dispatchInterest walks filter registrations from the deepest name
// prefix to the shallowest, invoking each match's action with
// KindInterest, demoting subsequent matches to KindConsumedInterest
// once one returns ResultInterestConsumed (§4.5 step 2).
func (h *Handle) dispatchInterest(msg []byte, pi *wire.ParsedInterest) {
	ends, err := wire.ComponentEnds(pi.Name())
	if err != nil {
		return
	}

	name := pi.Name()
	consumed := false
	for depth := len(ends); depth >= 1; depth-- {
		// Filters are keyed by a whole encoded Name element (filter.go),
		// so rebuild the depth-component prefix as one: the open tag and
		// components up to this depth, then the Name's closer byte.
		prefix := append(append([]byte(nil), name[:ends[depth-1]]...), name[len(name)-1])
		v, ok := h.filters.Get(prefix)
		if !ok {
			continue
		}
		action := v.(*Action)

		kind := KindInterest
		if consumed {
			kind = KindConsumedInterest
		}
		result := action.invoke(&UpcallInfo{
			Handle:       h,
			Kind:         kind,
			Msg:          msg,
			MatchedComps: depth,
		})
		if result == ResultInterestConsumed {
			consumed = true
		}
	}
}

// dispatchContentObject walks the interest registry from the deepest
// name prefix to the shallowest; every outstanding Interest under a
// matching bucket whose own name is a prefix of pco's name is offered
// the content (§4.5 step 3).
func (h *Handle) dispatchContentObject(msg []byte, pco *wire.ParsedContentObject) {
	ends, err := wire.ComponentEnds(pco.Name())
	if err != nil {
		return
	}

	if pco.HasType && pco.Type == wire.ContentTypeKey {
		h.cacheEmbeddedKey(pco)
	}

	for depth := len(ends); depth >= 1; depth-- {
		prefix := pco.Name()[1:ends[depth-1]]
		v, ok := h.interests.Get(prefix)
		if !ok {
			continue
		}
		bucket := v.(*interestBucket)
		for _, it := range bucket.list {
			if it.target <= 0 || it.outstanding <= 0 {
				continue
			}
			if !contentMatchesInterest(it.interestMsg, pco) {
				continue
			}
			h.deliverContent(it, msg, pco, depth)
		}
	}
}

// cacheEmbeddedKey inserts a KEY-typed ContentObject's payload into
// the key cache under the digest of its encoding (§4.5 step 3 bullet).
func (h *Handle) cacheEmbeddedKey(pco *wire.ParsedContentObject) {
	keyBytes := pco.Content()
	digest, err := ccnsign.Digest(ccnsign.DigestSHA256, keyBytes)
	if err != nil {
		return
	}
	h.keys.Set(digest, append([]byte(nil), keyBytes...))
}

// deliverContent runs one matched Interest through key location,
// verification, and upcall-result policy (§4.5 step 3).
func (h *Handle) deliverContent(it *Interest, msg []byte, pco *wire.ParsedContentObject, matchedComps int) {
	verdict, key := h.locateKey(pco)

	kind := KindContentUnverified
	if verdict == keyFound {
		if err := ccnsign.Verify(key, pco.SigCovered(), sigValueOf(pco), ccnsign.DigestSHA256); err == nil {
			kind = KindContent
		} else {
			kind = KindContentBad
		}
	}

	it.outstanding--
	result := it.action.invoke(&UpcallInfo{
		Handle:       h,
		Kind:         kind,
		Msg:          msg,
		MatchedComps: matchedComps,
		PubInterest:  it,
	})

	switch {
	case result == ResultReexpress:
		h.refreshInterest(it)
	case result == ResultVerify && kind == KindContentUnverified:
		h.initiateKeyFetch(pco, it)
	default:
		h.retireInterest(it)
	}
}

// sigValueOf extracts the Signature's SignatureBits leaf value.
func sigValueOf(pco *wire.ParsedContentObject) []byte {
	msg := pco.Msg
	cursor := pco.BSignature + 1
	for cursor < pco.ESignature-1 {
		if msg[cursor] == wire.TagSignatureBits {
			return wire.LeafValue(msg, cursor)
		}
		end, err := wire.SkipElement(msg, cursor)
		if err != nil {
			return nil
		}
		cursor = end
	}
	return nil
}

// contentMatchesInterest checks that interestMsg's Name is a
// component-wise prefix of pco's Name (§4.5's "content-matches-interest").
func contentMatchesInterest(interestMsg []byte, pco *wire.ParsedContentObject) bool {
	if interestMsg == nil {
		return false
	}
	pi, err := wire.ParseInterest(interestMsg, nil)
	if err != nil {
		return false
	}

	iEnds, err := wire.ComponentEnds(pi.Name())
	if err != nil {
		return false
	}
	cEnds, err := wire.ComponentEnds(pco.Name())
	if err != nil {
		return false
	}
	if len(iEnds) > len(cEnds) {
		return false
	}

	iName, cName := pi.Name(), pco.Name()
	prevI, prevC := 1, 1
	for depth := 0; depth < len(iEnds); depth++ {
		iComp := iName[prevI:iEnds[depth]]
		cComp := cName[prevC:cEnds[depth]]
		if !bytes.Equal(iComp, cComp) {
			return false
		}
		prevI = iEnds[depth]
		prevC = cEnds[depth]
	}
	return true
}
