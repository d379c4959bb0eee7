package bitstream

// Accumulator packs codes into bytes least significant bit first. Completed
// bytes wait in completed until drained; the unfinished byte is kept in
// holder with fill valid low bits, so a stream can be built across any
// number of calls without aligning to a byte boundary.
type Accumulator struct {
	completed []byte
	holder    uint64
	fill      uint8
}

func NewAccumulator() *Accumulator {
	return new(Accumulator)
}

// Append adds code to the end of the stream.
func (a *Accumulator) Append(code Code) {
	body, remaining := code.body, code.count
	for remaining > 0 {
		take := min(remaining, MaxCodeBits-a.fill)
		a.holder |= (body & mask(take)) << a.fill
		a.fill += take
		body >>= take
		remaining -= take
		for a.fill >= 8 {
			a.completed = append(a.completed, byte(a.holder))
			a.holder >>= 8
			a.fill -= 8
		}
	}
}

// AppendAll appends codes in order.
func (a *Accumulator) AppendAll(codes ...Code) {
	for _, code := range codes {
		a.Append(code)
	}
}

// Extend appends everything other holds, including its unfinished byte, at
// the current bit offset of a. other is left untouched.
func (a *Accumulator) Extend(other *Accumulator) {
	if a.fill == 0 {
		a.completed = append(a.completed, other.completed...)
	} else {
		for _, b := range other.completed {
			a.Append(Raw(uint64(b), 8))
		}
	}
	a.Append(Raw(other.holder, other.fill))
}

// Drain hands out the completed bytes. The unfinished byte stays behind.
func (a *Accumulator) Drain() []byte {
	out := a.completed
	a.completed = nil
	return out
}

// Flush drains every byte, padding the unfinished one with zero high bits,
// and leaves the accumulator empty.
func (a *Accumulator) Flush() []byte {
	out := a.Drain()
	if a.fill > 0 {
		out = append(out, byte(a.holder))
	}
	a.holder, a.fill = 0, 0
	return out
}

// State exposes the accumulator as its (completed bytes, partial byte,
// partial bit count) triple.
func (a *Accumulator) State() ([]byte, byte, uint8) {
	return a.completed, byte(a.holder), a.fill
}

// Len is the number of bits held, drained bytes excluded.
func (a *Accumulator) Len() int {
	return len(a.completed)*8 + int(a.fill)
}

func (a *Accumulator) Reset() {
	a.completed = a.completed[:0]
	a.holder, a.fill = 0, 0
}
