package ccn

import "github.com/xuzhw/ccn-go/std/wire"

// processInput is C3: reserve headroom, read once, feed the skeleton
// decoder, dispatch every complete message in arrival order, then
// compact any partial tail to the front of the buffer (§4.3).
func (h *Handle) processInput() error {
	if h.conn == nil {
		return ErrNotConnected
	}

	if cap(h.inbuf)-len(h.inbuf) < inputHeadroom {
		grown := make([]byte, len(h.inbuf), len(h.inbuf)+inputHeadroom)
		copy(grown, h.inbuf)
		h.inbuf = grown
	}

	room := h.inbuf[len(h.inbuf):cap(h.inbuf)]
	n, err := h.conn.Read(room)
	if n == 0 && err == nil {
		// End-of-stream: the peer closed its end (§4.3).
		return h.Disconnect()
	}
	if err != nil && !isEAGAIN(err) {
		if isENOTCONN(err) {
			return h.Disconnect()
		}
		return osErr(0, err)
	}
	if n < 0 {
		// A failed read (EAGAIN) reports n == -1: nothing was read.
		n = 0
	}
	h.inbuf = h.inbuf[:len(h.inbuf)+n]

	// The decoder's Index is always relative to h.inbuf[h.msgStart:],
	// the as-yet-undispatched tail; that tail only ever grows by
	// appending (never shifts) until the compaction step below, so the
	// decoder can resume across reads without rebasing mid-loop.
	for {
		tail := h.inbuf[h.msgStart:]
		state := h.decoder.Decode(tail)
		if state == wire.StateError {
			// A malformed frame is dropped at the per-message level
			// (§7 Protocol errors); resync by dropping everything
			// buffered so far.
			h.inbuf = h.inbuf[:0]
			h.msgStart = 0
			h.decoder.Reset()
			return nil
		}
		if state != wire.StateComplete {
			break
		}
		msgEnd := h.msgStart + h.decoder.Index
		msg := h.inbuf[h.msgStart:msgEnd]
		h.msgStart = msgEnd
		h.decoder.Reset()
		h.dispatchMessage(msg)
	}

	if h.msgStart > 0 {
		remaining := copy(h.inbuf, h.inbuf[h.msgStart:])
		h.inbuf = h.inbuf[:remaining]
		h.msgStart = 0
	}
	return nil
}
