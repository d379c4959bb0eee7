package lz

import "fmt"

// Locator remembers where short keys were seen. Keys are identified by a
// rolling hash of the last KeySize bytes; every hash maps to the positions
// registered under it. Only the most recent WindowCapacity registrations are
// kept: once the window is full the oldest one is evicted, so lookups stay
// cheap on long inputs.
type Locator struct {
	buckets []bucket
	window  []uint32
	head    int
	size    int

	hash     uint32
	shift    uint
	hashMask uint32

	found []int
}

type bucket struct {
	positions []int
	oldest    int
}

// hash widths per key size. shift*keySize covers the mask, so a byte falls
// out of the hash after keySize slides.
var hashParams = map[int]struct {
	bits  uint
	shift uint
}{
	2: {bits: 16, shift: 8},
	3: {bits: 15, shift: 5},
}

func NewLocator(keySize, windowCapacity int) *Locator {
	params, ok := hashParams[keySize]
	if !ok {
		panic(fmt.Sprintf("lz: unsupported key size %d", keySize))
	}
	if windowCapacity < 1 {
		panic(fmt.Sprintf("lz: window capacity must be positive, got %d", windowCapacity))
	}
	return &Locator{
		buckets:  make([]bucket, 1<<params.bits),
		window:   make([]uint32, windowCapacity),
		shift:    params.shift,
		hashMask: 1<<params.bits - 1,
	}
}

// Slide feeds the next byte into the rolling hash and returns the hash of
// the key ending with it.
func (l *Locator) Slide(b byte) uint32 {
	l.hash = ((l.hash << l.shift) ^ uint32(b)) & l.hashMask
	return l.hash
}

// Register records position under hash, evicting the oldest registration
// when the window is full.
func (l *Locator) Register(hash uint32, position int) {
	if l.size == len(l.window) {
		l.evict()
	}
	l.window[(l.head+l.size)%len(l.window)] = hash
	l.size++

	b := &l.buckets[hash]
	b.positions = append(b.positions, position)
}

func (l *Locator) evict() {
	hash := l.window[l.head]
	l.head = (l.head + 1) % len(l.window)
	l.size--

	b := &l.buckets[hash]
	b.oldest++
	if b.oldest == len(b.positions) {
		b.positions, b.oldest = b.positions[:0], 0
	} else if b.oldest > 64 && 2*b.oldest > len(b.positions) {
		kept := copy(b.positions, b.positions[b.oldest:])
		b.positions, b.oldest = b.positions[:kept], 0
	}
}

// Locate returns up to limit positions registered under hash, most recent
// first. A limit below one returns all of them. The slice is reused by the
// next call.
func (l *Locator) Locate(hash uint32, limit int) []int {
	l.found = l.found[:0]
	b := &l.buckets[hash]
	for i := len(b.positions) - 1; i >= b.oldest; i-- {
		if limit > 0 && len(l.found) == limit {
			break
		}
		l.found = append(l.found, b.positions[i])
	}
	return l.found
}

// Len is the number of registrations currently in the window.
func (l *Locator) Len() int {
	return l.size
}

// Reset empties the window and the rolling hash, keeping allocations.
func (l *Locator) Reset() {
	for i := 0; i < l.size; i++ {
		b := &l.buckets[l.window[(l.head+i)%len(l.window)]]
		b.positions, b.oldest = b.positions[:0], 0
	}
	l.head, l.size, l.hash = 0, 0, 0
}
