package ccn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOnSelfReturnsDeliveredContent(t *testing.T) {
	h, peer := newTestHandle(t)
	name := buildName(t, "get", "case")
	sc := newSignedContent(t, name, []byte("payload"), contentOpts{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 512)
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			n, err := peer.Read(buf)
			if n > 0 {
				peer.Write(sc.msg)
				return
			}
			if err != nil && !isEAGAIN(err) {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	pco, msg, err := h.Get(name, -1, nil, 500)
	<-done
	require.NoError(t, err)
	require.NotNil(t, pco)
	assert.Equal(t, []byte("payload"), pco.Content())
	assert.Equal(t, sc.msg, msg)
}

func TestGetOnSelfTimesOutWithNoReply(t *testing.T) {
	h, _ := newTestHandle(t)
	pco, _, err := h.Get(buildName(t, "nobody", "answers"), -1, nil, 50)
	require.NoError(t, err)
	assert.Nil(t, pco)
}
