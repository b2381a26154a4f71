package ccn

import "github.com/xuzhw/ccn-go/std/wire"

// Put validates that msg decodes to exactly one complete top-level
// message, then either writes it immediately or buffers it for later
// flushing (§4.2). Returns nil on full or partial success; partial
// success (the remainder went to the output buffer) is reported via
// the returned bool.
func (h *Handle) Put(msg []byte) (pending bool, err error) {
	if !wire.DecodeOne(msg) {
		return false, ErrInvalid
	}

	if h.tap != nil {
		if !h.tap.write(msg) {
			h.tap = nil
		}
	}

	if h.outputPending() {
		if err := h.appendOutput(msg); err != nil {
			return false, err
		}
		_, err := h.Pushout()
		return h.outputPending(), err
	}

	if h.conn == nil {
		return false, ErrNotConnected
	}

	n, err := h.conn.Write(msg)
	if err != nil && !isEAGAIN(err) {
		return false, osErr(0, err)
	}
	if n < 0 {
		// A failed write (EAGAIN) reports n == -1: nothing was written.
		n = 0
	}
	if n == len(msg) {
		return false, nil
	}
	if err := h.appendOutput(msg[n:]); err != nil {
		return false, err
	}
	return true, nil
}

func (h *Handle) appendOutput(p []byte) error {
	if len(h.outbuf)-h.outbufIndex+len(p) > h.cfg.MaxOutputBuffer {
		return ErrOutputBufferFull
	}
	h.outbuf = append(h.outbuf, p...)
	return nil
}

// Pushout flushes as much of the output buffer as the socket accepts
// (§4.2). Returns pending=true when bytes remain buffered.
func (h *Handle) Pushout() (pending bool, err error) {
	if !h.outputPending() {
		return false, nil
	}
	if h.conn == nil {
		return true, ErrNotConnected
	}

	n, err := h.conn.Write(h.outbuf[h.outbufIndex:])
	if n > 0 {
		h.outbufIndex += n
	}
	if err != nil && !isEAGAIN(err) {
		return true, osErr(0, err)
	}

	if !h.outputPending() {
		h.outbuf = h.outbuf[:0]
		h.outbufIndex = 0
		return false, nil
	}
	return true, nil
}

// GrabBufferedOutput lets a caller take ownership of the pending
// output buffer instead of having it flushed normally (§12.1
// supplemented feature). Only valid when nothing has been partially
// flushed yet (outbufIndex == 0, mirroring the original's contract);
// otherwise returns ok=false and leaves the buffer untouched.
func (h *Handle) GrabBufferedOutput() (buf []byte, ok bool) {
	if h.outbufIndex != 0 {
		return nil, false
	}
	buf = h.outbuf
	h.outbuf = nil
	return buf, true
}
