package net

import (
	"strings"
	"testing"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTransportPending(t *testing.T) {
	out := &syncBuffer{}
	trans := NewLineTransport(strings.NewReader(""), out, testCodec(), common.NewTestEntry(t, common.TestLogLevel))

	for i := 0; i < 3; i++ {
		trans.Send(note("n1", i))
	}
	assert.Equal(t, 3, trans.Pending())

	trans.Listen()
	require.NoError(t, trans.Close())

	assert.Equal(t, 0, trans.Pending())
	assert.Len(t, out.Lines(), 3)
}
