package flate

import (
	"fmt"

	"github.com/FitrahHaque/gzip-engine/compressor/bitstream"
	"github.com/FitrahHaque/gzip-engine/compressor/huffman"
)

type CodeLengthKind uint8

const (
	CodeLengthLiteral CodeLengthKind = iota
	CopyPrevious
	RepeatZero
)

// CodeLengthSymbol is one token of a run-length encoded code length table.
type CodeLengthSymbol struct {
	Kind CodeLengthKind

	// the code length for literals, the run for repeats
	Value uint8
}

// Code is the symbol of the code-length alphabet this token is sent with.
func (s CodeLengthSymbol) Code() int {
	switch s.Kind {
	case CodeLengthLiteral:
		return int(s.Value)
	case CopyPrevious:
		return 16
	case RepeatZero:
		if s.Value <= 10 {
			return 17
		}
		return 18
	}
	panic(fmt.Sprintf("flate: unknown code length kind %d", s.Kind))
}

// Extra is the run length field that follows the code.
func (s CodeLengthSymbol) Extra() bitstream.Code {
	switch s.Kind {
	case CopyPrevious:
		if s.Value < 3 || s.Value > 6 {
			panic(fmt.Sprintf("flate: cannot copy previous length %d times", s.Value))
		}
		return bitstream.Raw(uint64(s.Value-3), 2)
	case RepeatZero:
		switch {
		case s.Value < 3 || s.Value > 138:
			panic(fmt.Sprintf("flate: cannot repeat zero %d times", s.Value))
		case s.Value <= 10:
			return bitstream.Raw(uint64(s.Value-3), 3)
		}
		return bitstream.Raw(uint64(s.Value-11), 7)
	}
	return bitstream.Code{}
}

// symbolizeCodeLengths run-length encodes a table of code lengths. Runs of
// three or more zeros become RepeatZero, a nonzero length repeated three or
// more times after its first appearance becomes CopyPrevious.
func symbolizeCodeLengths(lengths []uint8) []CodeLengthSymbol {
	var symbols []CodeLengthSymbol
	for i := 0; i < len(lengths); {
		value := lengths[i]
		run := 1
		for i+run < len(lengths) && lengths[i+run] == value {
			run++
		}
		i += run

		if value == 0 {
			for run >= 3 {
				n := min(run, 138)
				symbols = append(symbols, CodeLengthSymbol{Kind: RepeatZero, Value: uint8(n)})
				run -= n
			}
		} else {
			symbols = append(symbols, CodeLengthSymbol{Kind: CodeLengthLiteral, Value: value})
			run--
			for run >= 3 {
				n := min(run, 6)
				symbols = append(symbols, CodeLengthSymbol{Kind: CopyPrevious, Value: uint8(n)})
				run -= n
			}
		}
		for ; run > 0; run-- {
			symbols = append(symbols, CodeLengthSymbol{Kind: CodeLengthLiteral, Value: value})
		}
	}
	return symbols
}

// writeCodeLengths emits HLIT, HDIST and HCLEN, the code-length code and the
// encoded literal/length and distance tables.
func writeCodeLengths(out *bitstream.Accumulator, literalLengths, distanceLengths []uint8) {
	numLiteralLengths := trimmedLen(literalLengths, firstLengthCode)
	numDistances := trimmedLen(distanceLengths, 1)

	lengths := make([]uint8, 0, numLiteralLengths+numDistances)
	lengths = append(lengths, literalLengths[:numLiteralLengths]...)
	lengths = append(lengths, distanceLengths[:numDistances]...)

	symbols := symbolizeCodeLengths(lengths)
	weights := make([]int, numCodeLengthCodes)
	for _, symbol := range symbols {
		weights[symbol.Code()]++
	}
	codeLengthLengths := huffman.Lengths(weights, maxCodeLengthCodeLength)
	encoder := huffman.Canonical(codeLengthLengths)

	numCodeLengths := numCodeLengthCodes
	for numCodeLengths > 4 && codeLengthLengths[codeLengthOrder[numCodeLengths-1]] == 0 {
		numCodeLengths--
	}

	out.AppendAll(
		bitstream.Raw(uint64(numLiteralLengths-firstLengthCode), 5),
		bitstream.Raw(uint64(numDistances-1), 5),
		bitstream.Raw(uint64(numCodeLengths-4), 4),
	)
	for _, symbol := range codeLengthOrder[:numCodeLengths] {
		out.Append(bitstream.Raw(uint64(codeLengthLengths[symbol]), 3))
	}
	for _, symbol := range symbols {
		out.Append(encoder.Encode(symbol.Code()).Then(symbol.Extra()))
	}
}

// trimmedLen drops trailing unused symbols, keeping at least minimum.
func trimmedLen(lengths []uint8, minimum int) int {
	n := len(lengths)
	for n > minimum && lengths[n-1] == 0 {
		n--
	}
	return n
}
