// Package ccn is the client event engine (§1-§9): the data structures
// and protocols that multiplex Interests and filter registrations over
// a single non-blocking socket, decode and dispatch incoming messages
// under longest-prefix matching, age/retransmit/time-out Interests,
// and locate or fetch publisher keys to verify arriving ContentObjects.
//
// The binary wire codec, hash table, and cryptographic primitives are
// external collaborators (std/wire, std/hashtb, std/ccnsign); this
// package only ever touches the byte offsets and digests they hand
// back.
package ccn

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/xuzhw/ccn-go/std/ccnlog"
	"github.com/xuzhw/ccn-go/std/hashtb"
	"github.com/xuzhw/ccn-go/std/wire"
)

// Conn is the transport this Handle drives: a non-blocking
// stream-socket-like connection. The real implementation
// (unixConn, in transport.go) wraps a raw AF_UNIX fd so the event
// loop (C9) can unix.Poll it directly; ccntest.FakeConn wraps a
// socketpair fd for the same reason, so tests exercise the real poll
// path instead of a mocked one.
type Conn interface {
	Fd() int
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// inputHeadroom is the minimum free space (§4.3) the incoming framer
// keeps available before each read.
const inputHeadroom = 8800

// Handle is C1: process-local context for one client connection.
type Handle struct {
	conn Conn

	// Incoming framer state (C3).
	inbuf    []byte
	msgStart int
	decoder  wire.SkeletonDecoder
	scratch  *wire.Indexbuf

	// Outgoing framer state (C2).
	outbuf      []byte
	outbufIndex int
	tap         *tapFile

	// Registries (C4, C5, C8).
	interests *hashtb.Table // prefix-key bytes -> *interestBucket
	filters   *hashtb.Table // full-name bytes -> *Action
	keys      *hashtb.Table // digest bytes -> []byte (DER public key)

	// Scheduling and re-entrance (§4.7, §5).
	lastReadClock time.Time
	running       int
	refreshUs     int64
	clockFn       func() time.Time

	// §9 open question: application-supplied certificate verifier.
	// Nil means Certificate KeyLocators are always CONTENT_UNVERIFIED.
	CertVerifier func(certDER []byte) (pubKeyDER []byte, ok bool)

	cfg Config

	// callerTimeoutMs is the caller-supplied millisecond deadline for
	// Run (§4.8); negative means infinite.
	callerTimeoutMs int

	mu sync.Mutex
}

// interestBucket is the per-prefix bucket (§3 "Interest-by-prefix
// entry"): a list of Interests sharing the same prefix key.
type interestBucket struct {
	list []*Interest
}

// Create allocates a Handle, seeding its configuration from the
// environment (and, if set, CCN_CLIENT_CONFIG) unless opts overrides
// fields explicitly (§4.1 "create").
func Create(opts ...HandleOption) (*Handle, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	h := &Handle{
		cfg:             cfg,
		interests:       hashtb.New(),
		filters:         hashtb.New(),
		keys:            hashtb.New(),
		scratch:         wire.NewIndexbuf(),
		refreshUs:       5 * cfg.LifetimeUs,
		callerTimeoutMs: -1,
		clockFn:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.cfg.TapPrefix != "" {
		// Failure to open is logged, not fatal (§6).
		if tf, err := openTap(h.cfg.TapPrefix); err == nil {
			h.tap = tf
		} else {
			ccnlog.Warn("ccn", "cannot open tap file", "prefix", h.cfg.TapPrefix, "err", err)
		}
	}
	return h, nil
}

// HandleOption overrides a Config field set by Create before any
// connection is made.
type HandleOption func(*Handle)

// WithSocketPath overrides the default/derived socket path.
func WithSocketPath(path string) HandleOption {
	return func(h *Handle) { h.cfg.SocketPath = path }
}

// WithDebug sets Config.Debug (which turns on the checkInterests
// consistency walk) regardless of CCN_DEBUG.
func WithDebug(debug bool) HandleOption {
	return func(h *Handle) { h.cfg.Debug = debug }
}

// WithConn installs a pre-built Conn (used by tests) instead of
// dialing a Unix socket.
func WithConn(conn Conn) HandleOption {
	return func(h *Handle) {
		h.conn = conn
		h.inbuf = make([]byte, 0, inputHeadroom*2)
	}
}

// WithClock overrides the Handle's wall clock (§10.4 test tooling),
// used in tests with ccntest.ManualClock in place of time.Now so
// retransmission and timeout logic is deterministic.
func WithClock(clockFn func() time.Time) HandleOption {
	return func(h *Handle) { h.clockFn = clockFn }
}

// now returns the Handle's current notion of wall-clock time.
func (h *Handle) now() time.Time {
	return h.clockFn()
}

// Connect opens the transport. If the Handle already has a connection,
// this fails with ErrInvalid (§4.1 "fail if already connected").
func (h *Handle) Connect() error {
	if h.conn != nil {
		return ErrInvalid
	}
	conn, err := dialUnix(h.cfg.SocketPath)
	if err != nil {
		return osErr(0, err)
	}
	h.conn = conn
	h.inbuf = make([]byte, 0, inputHeadroom*2)
	return nil
}

// GetFD returns the underlying connection's file descriptor, for
// external poll integration, or -1 if not connected.
func (h *Handle) GetFD() int {
	if h.conn == nil {
		return -1
	}
	return h.conn.Fd()
}

// Disconnect closes the transport without releasing registries, so a
// Handle can later Connect again and resume serving existing Interests
// and filters.
func (h *Handle) Disconnect() error {
	if h.conn == nil {
		return nil
	}
	err := h.conn.Close()
	h.conn = nil
	h.decoder.Reset()
	h.inbuf = h.inbuf[:0]
	h.msgStart = 0
	if h.tap != nil {
		h.tap.Close()
		h.tap = nil
	}
	if err != nil {
		return osErr(0, err)
	}
	return nil
}

// Destroy retires every Interest and filter, releasing their Actions,
// frees cached keys, and closes the transport (§4.1 "destroy").
func (h *Handle) Destroy() error {
	h.interests.Range(func(_ []byte, v any) bool {
		b := v.(*interestBucket)
		for _, it := range b.list {
			if it.action != nil {
				it.action.Release(h)
				it.action = nil
			}
		}
		return true
	})
	h.interests = hashtb.New()

	h.filters.Range(func(_ []byte, v any) bool {
		a := v.(*Action)
		a.Release(h)
		return true
	})
	h.filters = hashtb.New()

	h.keys = hashtb.New()

	return h.Disconnect()
}

// pollEvents builds the poll descriptor the event loop uses (§4.8
// step 4): always POLLIN, plus POLLOUT when output is pending.
func (h *Handle) pollEvents() int16 {
	events := int16(unix.POLLIN)
	if h.outputPending() {
		events |= unix.POLLOUT
	}
	return events
}

func (h *Handle) outputPending() bool {
	return h.outbufIndex < len(h.outbuf)
}
