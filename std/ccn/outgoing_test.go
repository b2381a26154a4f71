package ccn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutWritesImmediatelyWhenSocketIsReady(t *testing.T) {
	h, peer := newTestHandle(t)
	msg := buildInterestMsgFor(t, buildName(t, "a", "b"))

	pending, err := h.Put(msg)
	require.NoError(t, err)
	assert.False(t, pending)

	got := make([]byte, len(msg))
	n, err := peer.Read(got)
	require.NoError(t, err)
	assert.Equal(t, msg, got[:n])
}

func TestPutRejectsMalformedMessage(t *testing.T) {
	h, _ := newTestHandle(t)
	_, err := h.Put([]byte{0x01, 0x03})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPutFailsWhenNotConnected(t *testing.T) {
	h, err := Create()
	require.NoError(t, err)
	msg := buildInterestMsgFor(t, buildName(t, "a"))
	_, err = h.Put(msg)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestAppendOutputRejectsOverLimit(t *testing.T) {
	h, _ := newTestHandle(t)
	h.cfg.MaxOutputBuffer = 4
	err := h.appendOutput([]byte("12345"))
	assert.ErrorIs(t, err, ErrOutputBufferFull)
}

func TestPushoutNoopWhenNothingPending(t *testing.T) {
	h, _ := newTestHandle(t)
	pending, err := h.Pushout()
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestGrabBufferedOutputTakesOwnership(t *testing.T) {
	h, _ := newTestHandle(t)
	require.NoError(t, h.appendOutput([]byte("abc")))

	buf, ok := h.GrabBufferedOutput()
	assert.True(t, ok)
	assert.Equal(t, []byte("abc"), buf)
	assert.False(t, h.outputPending())
}

func TestGrabBufferedOutputFailsAfterPartialFlush(t *testing.T) {
	h, _ := newTestHandle(t)
	h.outbuf = []byte("abc")
	h.outbufIndex = 1

	_, ok := h.GrabBufferedOutput()
	assert.False(t, ok)
}
