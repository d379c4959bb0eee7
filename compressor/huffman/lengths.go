package huffman

import (
	"cmp"
	"fmt"
	"slices"
)

// MaxLength is the longest code DEFLATE allows for literal/length and
// distance codes.
const MaxLength = 15

type weightedSymbol struct {
	symbol int
	weight int
}

// Lengths assigns a code length to every symbol from its weight. Symbols of
// weight zero are unused and get length zero. The lengths always describe a
// complete prefix code no longer than maxLength bits:
//
//   - no used symbol: symbols 0 and 1 get one bit each
//   - one used symbol: it and its neighbour get one bit each, since a
//     decoder needs two leaves
//   - otherwise symbols are split recursively by weight
//
// Asking for more used symbols than 2^maxLength codes can hold is a bug in
// the caller and panics.
func Lengths(weights []int, maxLength int) []uint8 {
	if len(weights) < 2 {
		panic(fmt.Sprintf("huffman: alphabet of %d symbols is too small", len(weights)))
	}
	if maxLength < 1 || maxLength > 63 {
		panic(fmt.Sprintf("huffman: unsupported maximum length %d", maxLength))
	}

	lengths := make([]uint8, len(weights))
	var used []weightedSymbol
	for symbol, weight := range weights {
		if weight < 0 {
			panic(fmt.Sprintf("huffman: symbol %d has negative weight %d", symbol, weight))
		}
		if weight > 0 {
			used = append(used, weightedSymbol{symbol: symbol, weight: weight})
		}
	}

	switch len(used) {
	case 0:
		lengths[0], lengths[1] = 1, 1
		return lengths
	case 1:
		symbol := used[0].symbol
		lengths[symbol] = 1
		if symbol+1 < len(lengths) {
			lengths[symbol+1] = 1
		} else {
			lengths[symbol-1] = 1
		}
		return lengths
	}

	slices.SortFunc(used, func(a, b weightedSymbol) int {
		if a.weight != b.weight {
			return cmp.Compare(b.weight, a.weight)
		}
		return cmp.Compare(a.symbol, b.symbol)
	})
	bisect(used, 0, maxLength, lengths)
	return lengths
}

// bisect splits group, sorted by descending weight, into two subtrees one
// level deeper. Each side must fit the 2^(maxLength-depth-1) leaves left
// below it; within that bound the left side grows while it stays under half
// of the total weight.
func bisect(group []weightedSymbol, depth, maxLength int, lengths []uint8) {
	if len(group) <= 1 {
		for _, ws := range group {
			lengths[ws.symbol] = uint8(depth)
		}
		return
	}
	if depth >= maxLength {
		panic(fmt.Sprintf("huffman: %d symbols left at depth %d", len(group), depth))
	}

	capacity := 1 << (maxLength - depth - 1)
	if len(group) > 2*capacity {
		panic(fmt.Sprintf("huffman: %d symbols do not fit %d leaves at depth %d", len(group), 2*capacity, depth))
	}

	total := 0
	for _, ws := range group {
		total += ws.weight
	}

	split := max(1, len(group)-capacity)
	left := 0
	for _, ws := range group[:split] {
		left += ws.weight
	}
	for split < len(group)-1 && split < capacity && 2*left+group[split].weight < total {
		left += group[split].weight
		split++
	}

	bisect(group[:split], depth+1, maxLength, lengths)
	bisect(group[split:], depth+1, maxLength, lengths)
}

// Kraft reports whether lengths form a complete prefix code, that is the sum
// of 2^-length over the used symbols is exactly one.
func Kraft(lengths []uint8) bool {
	longest := slices.Max(append([]uint8{0}, lengths...))
	if longest == 0 || longest > 63 {
		return false
	}
	var sum uint64
	for _, length := range lengths {
		if length > 0 {
			sum += uint64(1) << (longest - length)
		}
	}
	return sum == uint64(1)<<longest
}
