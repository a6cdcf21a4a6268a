package pdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexToBinaryRoundtrip(t *testing.T) {
	tt := []struct {
		name string
		hex  string
		want string
	}{
		{"empty", "", ""},
		{"single byte", "AB", "AB"},
		{"with whitespace", "AB CD\n01", "ABCD01"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			bytes, err := HexToBinary(tc.hex)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, BinaryToHex(bytes))
		})
	}
}

func TestFromBytesToBytesRoundtrip(t *testing.T) {
	original := []byte{0xAB, 0xCD, 0xEF}
	bits := FromBytes(original)
	assert.Equal(t, 24, bits.Size())
	assert.Equal(t, original, bits.ToBytes())
}

func TestGetValue(t *testing.T) {
	bits := BitsFromInts(1, 0, 1, 1, 0, 0, 1, 0)
	assert.Equal(t, uint32(0b1011), bits.GetValue(0, 4))
	assert.Equal(t, uint32(0b0010), bits.GetValue(4, 4))
	assert.Equal(t, uint32(0b101100), bits.GetValue(0, 6))
}

func TestGetValueOutOfRangeIsTolerant(t *testing.T) {
	bits := BitsFromInts(1, 1)
	assert.Equal(t, uint32(0b110), bits.GetValue(0, 3))
}

func TestSliceAndTail(t *testing.T) {
	bits := BitsFromInts(0, 1, 1, 0, 1, 0)
	assert.Equal(t, BitsFromInts(1, 1, 0), bits.Slice(1, 4))
	assert.Equal(t, BitsFromInts(1, 0), bits.Tail(4))
}

func TestConcat(t *testing.T) {
	a := BitsFromInts(1, 0)
	b := BitsFromInts(0, 1)
	assert.Equal(t, BitsFromInts(1, 0, 0, 1), Concat(a, b))
}

func TestXOR(t *testing.T) {
	a := BitsFromInts(1, 0, 1, 1)
	b := BitsFromInts(1, 1, 0, 1)
	assert.Equal(t, BitsFromInts(0, 1, 1, 0), a.XOR(b))
}

func TestCursorReadAdvancesWithoutMutatingOriginal(t *testing.T) {
	bits := BitsFromInts(1, 0, 1, 1, 0, 0, 1, 0)
	c := NewCursor(bits)

	value, next := c.Read(4)
	assert.Equal(t, uint32(0b1011), value)
	assert.Equal(t, 0, c.Pos(), "original cursor must not observe the read")
	assert.Equal(t, 4, next.Pos())

	value2, next2 := next.Read(4)
	assert.Equal(t, uint32(0b0010), value2)
	assert.Equal(t, 8, next2.Pos())
	assert.Equal(t, 0, next2.Remaining())
}

func TestCursorSkipAndTail(t *testing.T) {
	bits := BitsFromInts(1, 1, 0, 0, 1, 0)
	c := NewCursor(bits).Skip(2)
	assert.Equal(t, BitsFromInts(0, 0, 1, 0), c.Tail())
}
