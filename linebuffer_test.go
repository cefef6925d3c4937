package ftpserver

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader hands out data in small, fixed-size pieces so a test can
// force readline to issue several underlying reads before it sees a CRLF.
type chunkedReader struct {
	data      []byte
	chunkSize int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}

	n := c.chunkSize
	if n > len(c.data) {
		n = len(c.data)
	}

	if n > len(p) {
		n = len(p)
	}

	copy(p, c.data[:n])
	c.data = c.data[n:]

	return n, nil
}

func TestLineBufferReadlineAcrossReads(t *testing.T) {
	lb := newLineBuffer()
	r := &chunkedReader{data: []byte("USER alice\r\n"), chunkSize: 3}

	line, err := lb.readline(r)
	require.NoError(t, err)
	assert.Equal(t, "USER alice", string(line))
}

func TestLineBufferPreservesBytesAfterCRLF(t *testing.T) {
	lb := newLineBuffer()
	r := bytes.NewReader([]byte("NOOP\r\nPWD\r\n"))

	line, err := lb.readline(r)
	require.NoError(t, err)
	assert.Equal(t, "NOOP", string(line))

	line, err = lb.readline(r)
	require.NoError(t, err)
	assert.Equal(t, "PWD", string(line))
}

func TestLineBufferTooLongYieldsEmpty(t *testing.T) {
	lb := newLineBuffer()
	overlong := bytes.Repeat([]byte("A"), BufSize)
	r := bytes.NewReader(overlong)

	line, err := lb.readline(r)
	require.NoError(t, err)
	assert.Nil(t, line)
	assert.Equal(t, 0, lb.n, "buffer must be cleared so the session stays usable")
}

func TestLineBufferFatalOnEOF(t *testing.T) {
	lb := newLineBuffer()
	r := bytes.NewReader(nil)

	_, err := lb.readline(r)
	assert.True(t, errors.Is(err, ErrFatalRead))
}

func TestLineBufferFatalOnReadError(t *testing.T) {
	lb := newLineBuffer()
	r := &erroringReader{err: errors.New("boom")}

	_, err := lb.readline(r)
	assert.True(t, errors.Is(err, ErrFatalRead))
}

type erroringReader struct{ err error }

func (e *erroringReader) Read([]byte) (int, error) { return 0, e.err }

func TestLineBufferBulkReadSaturates(t *testing.T) {
	lb := newLineBuffer()
	payload := bytes.Repeat([]byte("x"), BufSize+10)
	r := bytes.NewReader(payload)

	first := lb.read(r)
	assert.Equal(t, BufSize, len(first))

	second := lb.read(r)
	assert.Equal(t, 10, len(second))

	third := lb.read(r)
	assert.Empty(t, third)
}

func TestFindCRLFIgnoresLoneBytes(t *testing.T) {
	buf := []byte("AB\rCD\n\r\nEF")
	assert.Equal(t, 6, findCRLF(buf, len(buf)))
	assert.Equal(t, -1, findCRLF([]byte("no terminator"), len("no terminator")))
}
