package bitstream

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"
)

type BitstreamTestSuite struct {
	suite.Suite
}

func (suite *BitstreamTestSuite) TestAppendSingleBit() {
	a := NewAccumulator()
	a.Append(Raw(1, 1))
	suite.Equal([]byte{1}, a.Flush())
}

func (suite *BitstreamTestSuite) TestAppendWholeBytes() {
	a := NewAccumulator()
	a.AppendAll(Raw(1, 8), Raw(2, 8), Raw(16, 8))
	suite.Equal([]byte{1, 2, 16}, a.Drain())
	suite.Equal(0, a.Len())
	suite.Empty(a.Flush())
}

func (suite *BitstreamTestSuite) TestAppendAcrossByteBoundary() {
	a := NewAccumulator()
	a.AppendAll(Raw(0b111, 3), Raw(0, 2), Raw(0b11111, 5))
	suite.Equal(10, a.Len())

	completed, partial, fill := a.State()
	suite.Equal([]byte{0b11100111}, completed)
	suite.Equal(byte(0b11), partial)
	suite.Equal(uint8(2), fill)

	suite.Equal([]byte{0b11100111, 0b11}, a.Flush())
}

func (suite *BitstreamTestSuite) TestDrainKeepsPartialByte() {
	a := NewAccumulator()
	a.Append(Raw(0x1ff, 9))
	suite.Equal([]byte{0xff}, a.Drain())
	suite.Nil(a.Drain())
	a.Append(Raw(0, 7))
	suite.Equal([]byte{0x01}, a.Drain())
	suite.Empty(a.Flush())
}

func (suite *BitstreamTestSuite) TestAppendFullWidth() {
	a := NewAccumulator()
	a.Append(Raw(0b101, 3))
	a.Append(Raw(0xffffffffffffffff, 64))
	a.Append(Raw(0, 5))

	out := a.Flush()
	suite.Len(out, 9)
	suite.Equal(byte(0xfd), out[0])
	for _, b := range out[1:8] {
		suite.Equal(byte(0xff), b)
	}
	suite.Equal(byte(0x07), out[8])
}

func (suite *BitstreamTestSuite) TestHuffmanIsSentMostSignificantBitFirst() {
	code := Huffman(0b110, 3)
	suite.Equal("110", code.String())
	suite.Equal(uint64(0b011), code.Bits())

	a := NewAccumulator()
	a.Append(code)
	suite.Equal([]byte{0b011}, a.Flush())
}

func (suite *BitstreamTestSuite) TestThenOrdersOperands() {
	code := Huffman(0b10, 2).Then(Raw(0b01, 2))
	suite.Equal(uint8(4), code.Len())
	suite.Equal("1010", code.String())

	suite.Equal(code, Code{}.Then(code))
	suite.Equal(code, code.Then(Code{}))
	suite.True(Code{}.IsZero())
}

func (suite *BitstreamTestSuite) TestThenOverflowPanics() {
	suite.Panics(func() { Raw(0, 60).Then(Raw(0, 5)) })
	suite.Panics(func() { Raw(0, 65) })
}

func (suite *BitstreamTestSuite) TestExtendMatchesDirectAppend() {
	random := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		var codes []Code
		for i := 0; i < 40; i++ {
			width := uint8(random.Intn(MaxCodeBits + 1))
			codes = append(codes, Raw(random.Uint64(), width))
		}
		split := random.Intn(len(codes))

		direct := NewAccumulator()
		direct.AppendAll(codes...)

		head, tail := NewAccumulator(), NewAccumulator()
		head.AppendAll(codes[:split]...)
		tail.AppendAll(codes[split:]...)
		head.Extend(tail)

		suite.Equal(direct.Len(), head.Len())
		suite.True(bytes.Equal(direct.Flush(), head.Flush()))
	}
}

func (suite *BitstreamTestSuite) TestExtendAfterDrain() {
	stream := NewAccumulator()
	stream.Append(Raw(0b1, 1))

	block := NewAccumulator()
	block.Append(Raw(0xabcd, 16))
	stream.Extend(block)
	drained := stream.Drain()

	block = NewAccumulator()
	block.Append(Raw(0b1010101, 7))
	stream.Extend(block)

	out := append(drained, stream.Flush()...)
	suite.Equal([]byte{0x9b, 0x57, 0xab}, out)
}

func TestBitstreamTestSuite(t *testing.T) {
	suite.Run(t, new(BitstreamTestSuite))
}
