package decoder

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStartsUnsynchronized(t *testing.T) {
	d := New(Options{RemoveFillBits: true}, nil, nil, nil, nil, nil)

	assert.False(t, d.Synchronized())
	assert.Equal(t, 1, d.Time().TN)
}

func TestRxSymbolFeedsSynchronizer(t *testing.T) {
	d := New(Options{RemoveFillBits: true}, nil, nil, nil, nil, nil)

	for i := 0; i < 509; i++ {
		d.RxSymbol(0)
	}
	assert.False(t, d.Synchronized())
}

func TestRxStreamConsumesUntilEOF(t *testing.T) {
	d := New(Options{RemoveFillBits: true}, nil, nil, nil, nil, nil)
	r := &limitedReader{data: make([]byte, 1000)}

	err := d.RxStream(r)

	assert.NoError(t, err)
}

type limitedReader struct {
	data []byte
	pos  int
}

func (r *limitedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
