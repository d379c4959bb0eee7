package huffman

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/FitrahHaque/gzip-engine/compressor/bitstream"
)

// Encoder maps the symbols of one alphabet to their canonical codes.
type Encoder struct {
	lengths []uint8
	words   []uint64
	codes   []bitstream.Code
}

// Canonical numbers the codes the way DEFLATE expects: shorter codes first,
// codes of equal length in symbol order, each code one more than the
// previous one and shifted left whenever the length grows.
func Canonical(lengths []uint8) *Encoder {
	encoder := &Encoder{
		lengths: slices.Clone(lengths),
		words:   make([]uint64, len(lengths)),
		codes:   make([]bitstream.Code, len(lengths)),
	}

	var order []int
	for symbol, length := range lengths {
		if length > bitstream.MaxCodeBits {
			panic(fmt.Sprintf("huffman: symbol %d has length %d", symbol, length))
		}
		if length > 0 {
			order = append(order, symbol)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(lengths[a], lengths[b])
	})

	var code uint64
	var width uint8
	for _, symbol := range order {
		if length := lengths[symbol]; length > width {
			code <<= length - width
			width = length
		}
		encoder.words[symbol] = code
		encoder.codes[symbol] = bitstream.Huffman(code, width)
		code++
	}
	return encoder
}

// Encode returns the code of symbol ready to append to a bitstream. Encoding
// a symbol that has no code is a bug in the caller.
func (e *Encoder) Encode(symbol int) bitstream.Code {
	if e.lengths[symbol] == 0 {
		panic(fmt.Sprintf("huffman: symbol %d has no code", symbol))
	}
	return e.codes[symbol]
}

// Codeword returns the code of symbol as a number, most significant bit
// first, with its length.
func (e *Encoder) Codeword(symbol int) (uint64, uint8) {
	return e.words[symbol], e.lengths[symbol]
}

func (e *Encoder) Lengths() []uint8 {
	return e.lengths
}

// Len is the size of the alphabet.
func (e *Encoder) Len() int {
	return len(e.lengths)
}
