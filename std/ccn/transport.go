package ccn

import (
	"errors"

	"golang.org/x/sys/unix"
)

// unixConn is the real Conn: a raw AF_UNIX stream socket, set
// non-blocking immediately after connect (§4.1 "non-blocking after
// connect"). Using the raw fd (rather than net.Conn) means the event
// loop (C9) can unix.Poll it directly, the Go analogue of the
// original's poll(2) over a libc fd.
type unixConn struct {
	fd int
}

func dialUnix(path string) (*unixConn, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, err
	}
	addr := &unix.SockaddrUnix{Name: path}
	if err := unix.Connect(fd, addr); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &unixConn{fd: fd}, nil
}

func (c *unixConn) Fd() int { return c.fd }

func (c *unixConn) Read(p []byte) (int, error) {
	n, err := unix.Read(c.fd, p)
	if err != nil {
		return n, err
	}
	return n, nil
}

func (c *unixConn) Write(p []byte) (int, error) {
	n, err := unix.Write(c.fd, p)
	if err != nil {
		return n, err
	}
	return n, nil
}

func (c *unixConn) Close() error {
	return unix.Close(c.fd)
}

// isEAGAIN reports whether err is the non-blocking "try again" signal
// this library treats as benign (§4.2, §4.3).
func isEAGAIN(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

// isENOTCONN reports the disconnect signal the event loop reacts to
// by cleanly tearing down the session (§4.8 step 6).
func isENOTCONN(err error) bool {
	return errors.Is(err, unix.ENOTCONN)
}
