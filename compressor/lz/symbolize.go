package lz

// Symbolizer turns a block of bytes into literals and back-references with a
// greedy parse. It owns its Locator and reuses it between blocks.
type Symbolizer struct {
	config  Config
	locator *Locator
}

// NewSymbolizer panics on an invalid config; call Config.Validate first when
// the values come from a user.
func NewSymbolizer(config Config) *Symbolizer {
	if err := config.Validate(); err != nil {
		panic(err)
	}
	return &Symbolizer{
		config:  config,
		locator: NewLocator(config.KeySize, config.WindowCapacity),
	}
}

// Symbolize parses data from scratch. The result always ends with EndOfBlock.
func Symbolize(data []byte, config Config) []Symbol {
	return NewSymbolizer(config).Symbolize(data)
}

func (s *Symbolizer) Symbolize(data []byte) []Symbol {
	s.locator.Reset()
	keySize := s.config.KeySize
	symbols := make([]Symbol, 0, len(data)/2+1)

	// the hash runs keySize-1 bytes ahead of the position it describes
	for i := 0; i < keySize-1 && i < len(data); i++ {
		s.locator.Slide(data[i])
	}

	for i := 0; i < len(data); {
		if i+keySize > len(data) {
			symbols = append(symbols, Literal(data[i]))
			i++
			continue
		}

		hash := s.locator.Slide(data[i+keySize-1])
		length, distance := longestMatch(data, i, s.locator.Locate(hash, s.config.MaxCandidates))
		s.locator.Register(hash, i)

		advance := 1
		if length >= MinLength {
			symbols = append(symbols, Reference(length, distance))
			advance = length
		} else {
			symbols = append(symbols, Literal(data[i]))
		}

		// positions covered by the reference stay reachable for later matches
		for p := i + 1; p < i+advance && p+keySize <= len(data); p++ {
			s.locator.Register(s.locator.Slide(data[p+keySize-1]), p)
		}
		i += advance
	}

	return append(symbols, EndOfBlock())
}

func longestMatch(data []byte, i int, candidates []int) (length, distance int) {
	for _, candidate := range candidates {
		candidateDistance := i - candidate
		if candidateDistance > MaxDistance {
			continue
		}
		if candidateLength := matchLength(data, i, candidate); candidateLength > length {
			length, distance = candidateLength, candidateDistance
		}
	}
	return length, distance
}

func matchLength(data []byte, i, j int) int {
	limit := min(MaxLength, len(data)-i)
	n := 0
	for n < limit && data[i+n] == data[j+n] {
		n++
	}
	return n
}
