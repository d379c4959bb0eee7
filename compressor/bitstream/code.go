package bitstream

import "fmt"

// MaxCodeBits is the widest field a single Code can carry.
const MaxCodeBits = 64

// Code is a short run of bits, stored in emission order: bit 0 of body is the
// first bit written to the stream. The zero Code is empty.
type Code struct {
	body  uint64
	count uint8
}

// Raw packs the low width bits of value as a little-endian field, the way
// DEFLATE sends header fields and extra bits.
func Raw(value uint64, width uint8) Code {
	if width > MaxCodeBits {
		panic(fmt.Sprintf("bitstream: raw field of %d bits does not fit in a code", width))
	}
	return Code{body: value & mask(width), count: width}
}

// Huffman packs a prefix code of the given length. Prefix codes go out most
// significant bit first, so the body holds the code bit-reversed.
func Huffman(code uint64, length uint8) Code {
	if length > MaxCodeBits {
		panic(fmt.Sprintf("bitstream: huffman code of %d bits does not fit in a code", length))
	}
	var body uint64
	for i := uint8(0); i < length; i++ {
		body = body<<1 | (code>>i)&1
	}
	return Code{body: body, count: length}
}

// Then returns c followed by next.
func (c Code) Then(next Code) Code {
	if int(c.count)+int(next.count) > MaxCodeBits {
		panic(fmt.Sprintf("bitstream: %d+%d bits overflow a code", c.count, next.count))
	}
	return Code{body: c.body | next.body<<c.count, count: c.count + next.count}
}

func (c Code) Bits() uint64 {
	return c.body
}

func (c Code) Len() uint8 {
	return c.count
}

func (c Code) IsZero() bool {
	return c.count == 0
}

// String renders the bits in emission order.
func (c Code) String() string {
	out := make([]byte, c.count)
	for i := range out {
		out[i] = '0' + byte((c.body>>uint(i))&1)
	}
	return string(out)
}

func mask(width uint8) uint64 {
	return (uint64(1) << width) - 1
}
