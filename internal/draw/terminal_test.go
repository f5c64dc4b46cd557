package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkWriterWriteFrame(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out)

	cw.WriteFrame("ab\ncd")
	require.NoError(t, cw.Flush())

	assert.Equal(t, "\033[Hab\033[K\r\ncd\033[K\033[J", out.String())

	// The buffer is reset after a flush.
	out.Reset()
	require.NoError(t, cw.Flush())
	assert.Empty(t, out.String())
}

func TestChunkWriterFlushesLargeFrames(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out)

	big := strings.Repeat("x", 3*maxChunkSize+7)
	cw.WriteFrame(big)
	require.NoError(t, cw.Flush())

	assert.Equal(t, "\033[H"+big+"\033[K\033[J", out.String())
}
