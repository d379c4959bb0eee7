package lz

import "fmt"

const (
	MinLength   = 3
	MaxLength   = 258
	MaxDistance = 32768
)

type Kind uint8

const (
	LiteralKind Kind = iota
	ReferenceKind
	EndOfBlockKind
)

func (k Kind) String() string {
	switch k {
	case LiteralKind:
		return "literal"
	case ReferenceKind:
		return "reference"
	case EndOfBlockKind:
		return "end-of-block"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Symbol is one unit of the LZ parse: a literal byte, a back-reference or
// the end-of-block marker.
type Symbol struct {
	kind     Kind
	value    byte
	length   uint16
	distance uint16
}

func Literal(value byte) Symbol {
	return Symbol{kind: LiteralKind, value: value}
}

// Reference panics when length or distance cannot be expressed in DEFLATE;
// the symbolizer never produces such a pair.
func Reference(length, distance int) Symbol {
	if length < MinLength || length > MaxLength {
		panic(fmt.Sprintf("lz: reference length %d outside [%d, %d]", length, MinLength, MaxLength))
	}
	if distance < 1 || distance > MaxDistance {
		panic(fmt.Sprintf("lz: reference distance %d outside [1, %d]", distance, MaxDistance))
	}
	return Symbol{kind: ReferenceKind, length: uint16(length), distance: uint16(distance - 1)}
}

func EndOfBlock() Symbol {
	return Symbol{kind: EndOfBlockKind}
}

func (s Symbol) Kind() Kind {
	return s.kind
}

func (s Symbol) Value() byte {
	return s.value
}

func (s Symbol) Length() int {
	return int(s.length)
}

// Distance of a reference. Stored minus one so 32768 fits in 16 bits.
func (s Symbol) Distance() int {
	if s.kind != ReferenceKind {
		return 0
	}
	return int(s.distance) + 1
}

// Size is the number of input bytes the symbol stands for.
func (s Symbol) Size() int {
	switch s.kind {
	case LiteralKind:
		return 1
	case ReferenceKind:
		return int(s.length)
	}
	return 0
}

func (s Symbol) String() string {
	switch s.kind {
	case LiteralKind:
		return fmt.Sprintf("literal(%q)", s.value)
	case ReferenceKind:
		return fmt.Sprintf("reference(%d, %d)", s.Length(), s.Distance())
	}
	return s.kind.String()
}

// Expand replays symbols into the bytes they encode.
func Expand(symbols []Symbol) []byte {
	var out []byte
	for _, s := range symbols {
		switch s.kind {
		case LiteralKind:
			out = append(out, s.value)
		case ReferenceKind:
			start := len(out) - s.Distance()
			if start < 0 {
				panic(fmt.Sprintf("lz: %v reaches before the start of the data", s))
			}
			for i := 0; i < s.Length(); i++ {
				out = append(out, out[start+i])
			}
		case EndOfBlockKind:
			return out
		}
	}
	return out
}
