// Package ccntest provides test doubles for std/ccn: an in-memory
// connection that still has a real, pollable file descriptor, and a
// manually-advanced clock, so retransmission and timeout logic can be
// exercised deterministically instead of via wall-clock sleeps.
package ccntest

import "golang.org/x/sys/unix"

// FakeConn is one end of a unix.Socketpair, implementing ccn.Conn. The
// other end (the peer returned by NewFakeConnPair) lets a test act as
// the forwarder: write Interests
// it "received" and read back what the client sends, all through real
// fds so the client's event loop can unix.Poll this exactly as it
// would a live daemon connection.
type FakeConn struct {
	fd int
}

// NewFakeConnPair returns two connected FakeConns, the client's end
// and the simulated peer's end.
func NewFakeConnPair() (client *FakeConn, peer *FakeConn, err error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, err
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, nil, err
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, nil, err
	}
	return &FakeConn{fd: fds[0]}, &FakeConn{fd: fds[1]}, nil
}

func (c *FakeConn) Fd() int { return c.fd }

func (c *FakeConn) Read(p []byte) (int, error) {
	return unix.Read(c.fd, p)
}

func (c *FakeConn) Write(p []byte) (int, error) {
	return unix.Write(c.fd, p)
}

func (c *FakeConn) Close() error {
	return unix.Close(c.fd)
}
