package ccn

import "github.com/xuzhw/ccn-go/std/wire"

// Get is a one-shot blocking fetch (§6 "get"): express name, run the
// loop until a matching ContentObject arrives or timeoutMs elapses,
// and return its parsed form plus the raw message bytes.
//
// If the caller is already inside Run (an upcall calling Get), a
// nested Handle is allocated instead of reentering the caller's own
// loop — Run itself forbids reentrance. The nested Handle borrows the
// parent's key cache by reference for the duration of the call, which
// is safe because the parent's loop is not running during the nested
// call (§5, §9 "Nested single-fetch Handle borrowing parent's key
// cache").
func (h *Handle) Get(name []byte, prefixComps int, template []byte, timeoutMs int) (*wire.ParsedContentObject, []byte, error) {
	if h.running > 0 {
		return h.getNested(name, prefixComps, template, timeoutMs)
	}
	return h.getOnSelf(name, prefixComps, template, timeoutMs)
}

func (h *Handle) getOnSelf(name []byte, prefixComps int, template []byte, timeoutMs int) (*wire.ParsedContentObject, []byte, error) {
	var result *wire.ParsedContentObject
	var resultMsg []byte

	action := NewAction(func(info *UpcallInfo) UpcallResult {
		switch info.Kind {
		case KindContent, KindContentUnverified:
			if pco, err := wire.ParseContentObject(info.Msg, nil); err == nil {
				result = pco
				resultMsg = append([]byte(nil), info.Msg...)
			}
			h.SetRunTimeout(0)
		case KindInterestTimedOut:
			return ResultReexpress
		}
		return ResultOK
	}, nil)

	if _, err := h.ExpressInterest(name, prefixComps, action, template); err != nil {
		action.Release(h)
		return nil, nil, err
	}

	if err := h.Run(timeoutMs); err != nil {
		return nil, nil, err
	}
	return result, resultMsg, nil
}

func (h *Handle) getNested(name []byte, prefixComps int, template []byte, timeoutMs int) (*wire.ParsedContentObject, []byte, error) {
	nested, err := Create(WithSocketPath(h.cfg.SocketPath), WithDebug(h.cfg.Debug))
	if err != nil {
		return nil, nil, err
	}
	if err := nested.Connect(); err != nil {
		return nil, nil, err
	}

	borrowedKeys := h.keys
	nested.keys = borrowedKeys
	defer func() {
		// Restore the borrowed cache to the parent before tearing down
		// the nested Handle so destruction does not free it (§9).
		nested.keys = nil
		nested.Destroy()
	}()

	return nested.getOnSelf(name, prefixComps, template, timeoutMs)
}
