package ccn

import (
	"time"

	"golang.org/x/sys/unix"
)

// SetRunTimeout sets the caller's millisecond deadline for Run
// (negative means infinite) and returns the previous value. An upcall
// calling this with 0 causes the loop to exit once it unwinds (§4.8).
func (h *Handle) SetRunTimeout(newMs int) int {
	old := h.callerTimeoutMs
	h.callerTimeoutMs = newMs
	return old
}

// Run is C9: the event loop. It polls the socket for readiness subject
// to the scheduler-supplied deadline and the caller's timeout, driving
// C2/C3/C7 until the timeout expires, the caller zeroes it from inside
// an upcall, or an unrecoverable error occurs (§4.8).
func (h *Handle) Run(timeoutMs int) error {
	if h.running > 0 {
		return ErrBusy
	}
	h.callerTimeoutMs = timeoutMs

	start := time.Now()
	first := true
	for {
		if h.conn == nil {
			return ErrNotConnected
		}

		microsec := h.ProcessScheduledOperations()

		if !first && h.callerTimeoutMs >= 0 {
			elapsedMs := int(time.Since(start).Milliseconds())
			if elapsedMs >= h.callerTimeoutMs {
				return nil
			}
		}
		first = false

		waitMs := int(microsec / 1000)
		if h.callerTimeoutMs >= 0 {
			remaining := h.callerTimeoutMs - int(time.Since(start).Milliseconds())
			if remaining < waitMs {
				waitMs = remaining
			}
		}
		if waitMs < 0 {
			waitMs = 0
		}

		fds := []unix.PollFd{{Fd: int32(h.conn.Fd()), Events: h.pollEvents()}}
		n, err := unix.Poll(fds, waitMs)
		if err != nil && err != unix.EINTR {
			return osErr(0, err)
		}
		if n <= 0 {
			if h.callerTimeoutMs == 0 {
				return nil
			}
			continue
		}

		revents := fds[0].Revents
		if revents&unix.POLLOUT != 0 {
			if _, err := h.Pushout(); err != nil {
				if isENOTCONN(err) {
					h.Disconnect()
				} else {
					return err
				}
			}
		}
		if revents&unix.POLLIN != 0 {
			if err := h.processInput(); err != nil {
				return err
			}
		}

		if h.callerTimeoutMs == 0 {
			return nil
		}
	}
}
