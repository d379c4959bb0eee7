package flate

import (
	"fmt"
	"math/bits"

	"github.com/FitrahHaque/gzip-engine/compressor/bitstream"
	"github.com/FitrahHaque/gzip-engine/compressor/lz"
)

const (
	numLiteralLengthCodes = 286
	numDistanceCodes      = 30
	numCodeLengthCodes    = 19

	endOfBlockCode  = 256
	firstLengthCode = 257

	// code lengths of the code-length alphabet travel in 3-bit fields
	maxCodeLengthCodeLength = 7

	blockTypeDynamic = 2
)

// transmission order of the code-length alphabet's own code lengths
var codeLengthOrder = [numCodeLengthCodes]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// lengthCode maps a match length to its literal/length symbol and extra
// bits. Lengths 3..10 have a symbol each; from 11 on, symbols come in groups
// of four whose extra bits grow by one per group; 258 has its own symbol.
func lengthCode(length int) (int, bitstream.Code) {
	switch {
	case length < lz.MinLength || length > lz.MaxLength:
		panic(fmt.Sprintf("flate: length %d cannot be encoded", length))
	case length < 11:
		return firstLengthCode + length - lz.MinLength, bitstream.Code{}
	case length == lz.MaxLength:
		return 285, bitstream.Code{}
	}

	extraBits := bits.Len(uint(length-3)) - 3
	groupStart := 1<<(extraBits+2) + 3
	offset := length - groupStart
	code := 261 + 4*extraBits + offset>>extraBits
	return code, bitstream.Raw(uint64(offset), uint8(extraBits))
}

// distanceCode maps a distance to its distance symbol and extra bits.
// Distances 1..4 have a symbol each, after that symbols come in pairs whose
// extra bits grow by one per pair.
func distanceCode(distance int) (int, bitstream.Code) {
	switch {
	case distance < 1 || distance > lz.MaxDistance:
		panic(fmt.Sprintf("flate: distance %d cannot be encoded", distance))
	case distance < 5:
		return distance - 1, bitstream.Code{}
	}

	extraBits := bits.Len(uint(distance-1)) - 2
	groupStart := 1<<(extraBits+1) + 1
	offset := distance - groupStart
	code := 2 + 2*extraBits + offset>>extraBits
	return code, bitstream.Raw(uint64(offset), uint8(extraBits))
}

// literalLengthCode is the literal/length alphabet symbol a Symbol is coded
// with.
func literalLengthCode(symbol lz.Symbol) int {
	switch symbol.Kind() {
	case lz.LiteralKind:
		return int(symbol.Value())
	case lz.ReferenceKind:
		code, _ := lengthCode(symbol.Length())
		return code
	}
	return endOfBlockCode
}
