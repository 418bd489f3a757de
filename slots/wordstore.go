package slots

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sort"
)

var ErrSnapshotBadSize = errors.New("snapshot length is not a whole number of address, word pairs")

// WordReader reads single words from the flat storage space. An address that
// was never written reads as the zero word.
type WordReader interface {
	GetWord(addr Addr) Word
}

// WordWriter writes single words to the flat storage space. Writing the zero
// word returns the address to its unwritten state.
type WordWriter interface {
	PutWord(addr Addr, w Word)
}

// WordStore is the host storage medium for the mapping and array stores: a
// flat space of fixed size addressable words, durable across operations
// within the chosen scope.
type WordStore interface {
	WordReader
	WordWriter
}

// MemoryStore is the in process WordStore. The space is sparse, only written
// words are held, which is what makes the hash derived addresses practical.
type MemoryStore struct {
	words map[Addr]Word
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{words: map[Addr]Word{}}
}

func (s *MemoryStore) GetWord(addr Addr) Word {
	return s.words[addr]
}

func (s *MemoryStore) PutWord(addr Addr, w Word) {
	// A zero word and an absent word are indistinguishable to readers.
	// Deleting keeps the snapshot encoding canonical.
	if w == (Word{}) {
		delete(s.words, addr)
		return
	}
	s.words[addr] = w
}

// WordCount returns the number of occupied words.
func (s *MemoryStore) WordCount() uint64 {
	return uint64(len(s.words))
}

const snapshotPairBytes = AddrBytes + ValueBytes

// MarshalBinary encodes the store as the canonical snapshot form: occupied
// address, word pairs sorted by address.
//
//	|---------|---------|---------|---------|
//	| addr 0  | word 0  | addr 1  | word 1  | ...
//	|---------|---------|---------|---------|
//	| 32 bytes| 32 bytes| 32 bytes| 32 bytes|
//
// Sorting makes the encoding, and therefore the Digest, independent of write
// order. Two stores holding the same words snapshot identically.
func (s *MemoryStore) MarshalBinary() ([]byte, error) {
	addrs := make([]Addr, 0, len(s.words))
	for addr := range s.words {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})

	b := make([]byte, 0, len(addrs)*snapshotPairBytes)
	for _, addr := range addrs {
		w := s.words[addr]
		b = append(b, addr[:]...)
		b = append(b, w[:]...)
	}
	return b, nil
}

// UnmarshalBinary replaces the store contents with the snapshot in b.
func (s *MemoryStore) UnmarshalBinary(b []byte) error {
	if len(b)%snapshotPairBytes != 0 {
		return ErrSnapshotBadSize
	}
	words := make(map[Addr]Word, len(b)/snapshotPairBytes)
	for i := 0; i < len(b); i += snapshotPairBytes {
		var addr Addr
		var w Word
		copy(addr[:], b[i:i+AddrBytes])
		copy(w[:], b[i+AddrBytes:i+snapshotPairBytes])
		if w == (Word{}) {
			continue
		}
		words[addr] = w
	}
	s.words = words
	return nil
}

// Digest commits to the full store contents. It hashes the word count
// followed by the canonical snapshot stream.
func (s *MemoryStore) Digest() []byte {
	snap, _ := s.MarshalBinary()
	h := sha256.New()
	var count [8]byte
	binary.BigEndian.PutUint64(count[:], s.WordCount())
	h.Write(count[:])
	h.Write(snap)
	return h.Sum(nil)
}
