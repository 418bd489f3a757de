package slots

import "encoding/binary"

const (
	// ValueBytes defines the width of ALL words in the slot space. This fixed
	// width makes it possible to compute any record address knowing only the
	// registered word counts, without reading the storage first.
	ValueBytes = 32

	// AddrBytes is the width of a storage address. Addresses are the output
	// of the slot hash, treated as big endian 256 bit integers for the
	// purposes of stride arithmetic.
	AddrBytes = 32
)

// Word is a single fixed width storage word.
type Word [ValueBytes]byte

// Addr is a location in the flat storage space.
type Addr [AddrBytes]byte

// Add returns a + delta, treating the address as a big endian 256 bit
// integer. Overflow wraps, as it does for the source address space.
func (a Addr) Add(delta uint64) Addr {
	r := a
	for i := AddrBytes - 1; i >= 0 && delta > 0; i-- {
		sum := uint64(r[i]) + (delta & 0xff)
		r[i] = byte(sum)
		delta = (delta >> 8) + (sum >> 8)
	}
	return r
}

// wordPutUint64 encodes v into the trailing 8 bytes of a word, big endian.
// Counter slots (the array length) use this layout.
func wordPutUint64(v uint64) Word {
	var w Word
	binary.BigEndian.PutUint64(w[ValueBytes-8:], v)
	return w
}

// wordUint64 decodes a counter word written by wordPutUint64.
func wordUint64(w Word) uint64 {
	return binary.BigEndian.Uint64(w[ValueBytes-8:])
}
