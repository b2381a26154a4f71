package ccn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuzhw/ccn-go/std/ccntest"
)

func newTestHandleWithClock(t *testing.T, clock *ccntest.ManualClock) (*Handle, *ccntest.FakeConn) {
	t.Helper()
	client, peer, err := ccntest.NewFakeConnPair()
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	h, err := Create(WithConn(client), WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { h.Destroy() })
	return h, peer
}

func drain(t *testing.T, peer *ccntest.FakeConn) {
	t.Helper()
	buf := make([]byte, 4096)
	for {
		n, err := peer.Read(buf)
		if n <= 0 || err != nil {
			return
		}
	}
}

func TestAgeInterestReexpressesOnTimeout(t *testing.T) {
	clock := ccntest.NewManualClock(time.Unix(0, 0))
	h, peer := newTestHandleWithClock(t, clock)
	h.cfg.LifetimeUs = 1_000_000

	reexpressed := 0
	_, err := h.ExpressInterest(buildName(t, "timeout", "case"), -1, NewAction(func(info *UpcallInfo) UpcallResult {
		if info.Kind == KindInterestTimedOut {
			reexpressed++
			return ResultReexpress
		}
		return ResultOK
	}, nil), nil)
	require.NoError(t, err)
	drain(t, peer)

	clock.Advance(2 * time.Second)
	h.ProcessScheduledOperations()

	assert.Equal(t, 1, reexpressed)
}

func TestAgeInterestRetiresWithoutReexpress(t *testing.T) {
	clock := ccntest.NewManualClock(time.Unix(0, 0))
	h, peer := newTestHandleWithClock(t, clock)
	h.cfg.LifetimeUs = 1_000_000

	var lastKind UpcallKind
	it, err := h.ExpressInterest(buildName(t, "give", "up"), -1, NewAction(func(info *UpcallInfo) UpcallResult {
		if info.Kind != KindFinal {
			lastKind = info.Kind
		}
		return ResultOK
	}, nil), nil)
	require.NoError(t, err)
	drain(t, peer)

	clock.Advance(2 * time.Second)
	h.ProcessScheduledOperations()

	assert.Equal(t, KindInterestTimedOut, lastKind)
	assert.Nil(t, it.interestMsg, "retired after a non-reexpress timeout")
}

func TestProcessScheduledOperationsSweepsRetiredInterests(t *testing.T) {
	clock := ccntest.NewManualClock(time.Unix(0, 0))
	h, peer := newTestHandleWithClock(t, clock)
	h.cfg.LifetimeUs = 1_000_000

	it, err := h.ExpressInterest(buildName(t, "sweep", "me"), -1, NewAction(func(*UpcallInfo) UpcallResult {
		return ResultOK
	}, nil), nil)
	require.NoError(t, err)
	drain(t, peer)

	clock.Advance(2 * time.Second)
	h.ProcessScheduledOperations()

	_, ok := h.interests.Get(it.prefixKey)
	assert.False(t, ok, "the bucket is deleted once its list empties")
}

func TestProcessScheduledOperationsSkipsAgingWhenOutputPending(t *testing.T) {
	clock := ccntest.NewManualClock(time.Unix(0, 0))
	h, _ := newTestHandleWithClock(t, clock)
	h.outbuf = []byte("pending")

	fired := false
	h.interests.Set([]byte("key"), &interestBucket{list: []*Interest{{
		interestMsg: []byte{0x01, 0x03, 0x00},
		target:      1,
		outstanding: 1,
		action: NewAction(func(*UpcallInfo) UpcallResult {
			fired = true
			return ResultOK
		}, nil),
	}}})

	h.ProcessScheduledOperations()
	assert.False(t, fired, "aging is deferred until output drains")
}
