package exec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamingWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamingWriter(&buf, "> ", "240")

	n, err := w.Write([]byte("line 1\nline 2\npart"))
	require.NoError(t, err)
	assert.Equal(t, 18, n)
	assert.Equal(t, "> line 1\n> line 2\n", buf.String())

	_, err = w.Write([]byte("ial\n"))
	require.NoError(t, err)
	assert.Equal(t, "> line 1\n> line 2\n> partial\n", buf.String())
}

func TestStreamingWriter_KeepsBlankLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamingWriter(&buf, "| ", "240")

	_, err := w.Write([]byte("a\n\nb\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "| a\n| \n| b\n", buf.String())
}

func TestStreamingWriter_Flush(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamingWriter(&buf, "", "240")

	_, _ = w.Write([]byte("no newline"))
	assert.Empty(t, buf.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "no newline\n", buf.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "no newline\n", buf.String(), "second flush writes nothing")
}
