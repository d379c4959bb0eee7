package huffman

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LengthsTestSuite struct {
	suite.Suite
}

func (suite *LengthsTestSuite) TestKnownWeights() {
	for _, testCase := range []struct {
		weights []int
		want    []uint8
	}{
		{weights: []int{1, 1, 1, 1}, want: []uint8{2, 2, 2, 2}},
		{weights: []int{4, 2, 1, 1}, want: []uint8{1, 2, 3, 3}},
		{weights: []int{1, 1, 2, 4}, want: []uint8{3, 3, 2, 1}},
		{weights: []int{0, 5, 0, 5}, want: []uint8{0, 1, 0, 1}},
		{weights: []int{3, 3, 3}, want: []uint8{1, 2, 2}},
	} {
		suite.Equal(testCase.want, Lengths(testCase.weights, MaxLength), "weights %v", testCase.weights)
	}
}

func (suite *LengthsTestSuite) TestSingleUsedSymbol() {
	lengths := Lengths([]int{0, 0, 9, 0}, MaxLength)
	suite.Equal([]uint8{0, 0, 1, 1}, lengths)

	lengths = Lengths([]int{0, 0, 0, 9}, MaxLength)
	suite.Equal([]uint8{0, 0, 1, 1}, lengths)

	endOfBlockOnly := make([]int, 286)
	endOfBlockOnly[256] = 1
	lengths = Lengths(endOfBlockOnly, MaxLength)
	suite.Equal(uint8(1), lengths[256])
	suite.Equal(uint8(1), lengths[257])
	suite.True(Kraft(lengths))
}

func (suite *LengthsTestSuite) TestNoUsedSymbol() {
	lengths := Lengths(make([]int, 30), MaxLength)
	suite.Equal(uint8(1), lengths[0])
	suite.Equal(uint8(1), lengths[1])
	suite.True(Kraft(lengths))
}

func (suite *LengthsTestSuite) TestRandomWeightsFormCompleteCodes() {
	random := rand.New(rand.NewSource(3))

	for _, alphabet := range []struct {
		size      int
		maxLength int
	}{
		{size: 286, maxLength: MaxLength},
		{size: 30, maxLength: MaxLength},
		{size: 19, maxLength: 7},
	} {
		for round := 0; round < 50; round++ {
			weights := make([]int, alphabet.size)
			for i := range weights {
				if random.Intn(3) > 0 {
					weights[i] = random.Intn(1 << uint(random.Intn(20)))
				}
			}

			lengths := Lengths(weights, alphabet.maxLength)
			suite.True(Kraft(lengths), "weights %v gave %v", weights, lengths)
			for symbol, length := range lengths {
				suite.LessOrEqual(int(length), alphabet.maxLength)
				if weights[symbol] > 0 {
					suite.NotZero(length, "used symbol %d has no code", symbol)
				}
			}
			suite.assertPrefixFree(Canonical(lengths))
		}
	}
}

func (suite *LengthsTestSuite) TestSkewedWeightsRespectLimit() {

	// fibonacci weights push an unrestricted huffman tree past 15 levels
	weights := make([]int, 30)
	a, b := 1, 1
	for i := range weights {
		weights[i] = a
		a, b = b, a+b
	}

	lengths := Lengths(weights, MaxLength)
	suite.True(Kraft(lengths))
	for _, length := range lengths {
		suite.LessOrEqual(length, uint8(MaxLength))
	}

	lengths = Lengths(weights[:19], 7)
	suite.True(Kraft(lengths))
	for _, length := range lengths {
		suite.LessOrEqual(length, uint8(7))
	}
}

func (suite *LengthsTestSuite) TestHeavierSymbolsGetShorterCodes() {
	weights := []int{1, 100, 10, 1000, 10, 1}
	lengths := Lengths(weights, MaxLength)
	suite.Less(lengths[3], lengths[1])
	suite.Less(lengths[1], lengths[2])
	suite.LessOrEqual(lengths[2], lengths[4])
}

func (suite *LengthsTestSuite) TestDeterministic() {
	weights := []int{5, 5, 5, 5, 5, 1, 1, 0, 7}
	suite.Equal(Lengths(weights, MaxLength), Lengths(weights, MaxLength))
}

func (suite *LengthsTestSuite) TestTooManySymbolsPanics() {
	suite.Panics(func() { Lengths([]int{1, 1, 1, 1, 1}, 2) })
	suite.Panics(func() { Lengths([]int{1}, MaxLength) })
	suite.Panics(func() { Lengths([]int{1, -1}, MaxLength) })
}

func (suite *LengthsTestSuite) TestKraft() {
	suite.True(Kraft([]uint8{1, 1}))
	suite.True(Kraft([]uint8{2, 0, 2, 1}))
	suite.False(Kraft([]uint8{2, 2, 2}))
	suite.False(Kraft([]uint8{1, 1, 1}))
	suite.False(Kraft([]uint8{0, 0}))
}

func (suite *LengthsTestSuite) assertPrefixFree(encoder *Encoder) {
	var symbols []int
	for symbol, length := range encoder.Lengths() {
		if length > 0 {
			symbols = append(symbols, symbol)
		}
	}

	for _, a := range symbols {
		for _, b := range symbols {
			if a == b {
				continue
			}
			codeA, lengthA := encoder.Codeword(a)
			codeB, lengthB := encoder.Codeword(b)
			if lengthA > lengthB {
				continue
			}
			if codeA == codeB>>(lengthB-lengthA) {
				suite.Failf("codes are not prefix free", "code of %d is a prefix of code of %d", a, b)
			}
		}
	}
}

type CanonicalTestSuite struct {
	suite.Suite
}

func (suite *CanonicalTestSuite) TestReferenceExample() {

	// lengths (3, 3, 3, 3, 3, 2, 4, 4) for symbols A..H
	encoder := Canonical([]uint8{3, 3, 3, 3, 3, 2, 4, 4})
	for symbol, want := range []string{"010", "011", "100", "101", "110", "00", "1110", "1111"} {
		suite.Equal(want, encoder.Encode(symbol).String(), "symbol %d", symbol)
	}
}

func (suite *CanonicalTestSuite) TestSkipsUnusedSymbols() {
	encoder := Canonical([]uint8{0, 2, 0, 1, 2})
	suite.Equal("10", encoder.Encode(1).String())
	suite.Equal("0", encoder.Encode(3).String())
	suite.Equal("11", encoder.Encode(4).String())
	suite.Equal(5, encoder.Len())
	suite.Panics(func() { encoder.Encode(0) })

	word, length := encoder.Codeword(4)
	suite.Equal(uint64(0b11), word)
	suite.Equal(uint8(2), length)
}

func (suite *CanonicalTestSuite) TestKeepsCopyOfLengths() {
	lengths := []uint8{1, 1}
	encoder := Canonical(lengths)
	lengths[0] = 5
	suite.Equal([]uint8{1, 1}, encoder.Lengths())
}

func TestLengthsTestSuite(t *testing.T) {
	suite.Run(t, new(LengthsTestSuite))
}

func TestCanonicalTestSuite(t *testing.T) {
	suite.Run(t, new(CanonicalTestSuite))
}
