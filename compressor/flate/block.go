package flate

import (
	"fmt"

	"github.com/FitrahHaque/gzip-engine/compressor/bitstream"
	"github.com/FitrahHaque/gzip-engine/compressor/huffman"
	"github.com/FitrahHaque/gzip-engine/compressor/lz"
)

// BlockStats describes one emitted block.
type BlockStats struct {
	Final      bool
	Input      int
	Symbols    int
	References int
	Bits       int
}

// writeBlock appends one dynamic Huffman block holding symbols to out. The
// symbols must end with EndOfBlock. Nothing is aligned: the block starts at
// whatever bit out is at and leaves its last byte unfinished.
func writeBlock(out *bitstream.Accumulator, symbols []lz.Symbol, final bool) BlockStats {
	if len(symbols) == 0 || symbols[len(symbols)-1].Kind() != lz.EndOfBlockKind {
		panic("flate: block does not end with end-of-block")
	}

	stats := BlockStats{Final: final, Symbols: len(symbols)}
	literalWeights := make([]int, numLiteralLengthCodes)
	distanceWeights := make([]int, numDistanceCodes)
	for _, symbol := range symbols {
		literalWeights[literalLengthCode(symbol)]++
		stats.Input += symbol.Size()
		if symbol.Kind() == lz.ReferenceKind {
			code, _ := distanceCode(symbol.Distance())
			distanceWeights[code]++
			stats.References++
		}
	}

	literalEncoder := huffman.Canonical(huffman.Lengths(literalWeights, huffman.MaxLength))
	distanceEncoder := huffman.Canonical(huffman.Lengths(distanceWeights, huffman.MaxLength))

	header := bitstream.NewAccumulator()
	header.Append(blockHeader(final))
	writeCodeLengths(header, literalEncoder.Lengths(), distanceEncoder.Lengths())

	body := bitstream.NewAccumulator()
	for _, symbol := range symbols {
		body.Append(encodeSymbol(symbol, literalEncoder, distanceEncoder))
	}

	stats.Bits = header.Len() + body.Len()
	out.Extend(header)
	out.Extend(body)
	return stats
}

// blockHeader is BFINAL followed by BTYPE.
func blockHeader(final bool) bitstream.Code {
	var finalBit uint64
	if final {
		finalBit = 1
	}
	return bitstream.Raw(finalBit, 1).Then(bitstream.Raw(blockTypeDynamic, 2))
}

// encodeSymbol is the symbol's code followed by its extra bits; references
// add the distance code and its extra bits.
func encodeSymbol(symbol lz.Symbol, literalEncoder, distanceEncoder *huffman.Encoder) bitstream.Code {
	switch symbol.Kind() {
	case lz.LiteralKind:
		return literalEncoder.Encode(int(symbol.Value()))
	case lz.EndOfBlockKind:
		return literalEncoder.Encode(endOfBlockCode)
	case lz.ReferenceKind:
		length, lengthExtra := lengthCode(symbol.Length())
		distance, distanceExtra := distanceCode(symbol.Distance())
		return literalEncoder.Encode(length).
			Then(lengthExtra).
			Then(distanceEncoder.Encode(distance)).
			Then(distanceExtra)
	}
	panic(fmt.Sprintf("flate: unknown symbol kind %v", symbol.Kind()))
}
