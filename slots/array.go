package slots

import (
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
)

// Array is the index addressed store: an ordered, appendable sequence of
// tagged records of heterogeneous derived shapes, plus a length counter.
//
// Element slots are allocated at the stride of the largest registered shape
// so that any element's address is computable from its index alone. The
// address computation must precede the tag read that reveals the variant, so
// the stride cannot depend on the occupant. The cost is stated up front: the
// array wastes space when shapes vary widely in size, and the family cannot
// grow a larger shape once an array has been deployed over it (the registry
// seal enforces this).
//
// Removal is strictly last in, first out. Arbitrary index deletion is not
// offered: it would either force a full re-address of every later element or
// leave a hole whose empty tag the stride based Get would misread.
type Array struct {
	Store  WordStore
	Reg    *Registry
	Region RegionID

	// stride is captured at construction from the sealed registry.
	stride uint64

	hash SlotHasher
	log  logger.Logger
}

// NewArray constructs an index addressed store over the given word store and
// record family. Constructing any store over a registry seals it, see
// Registry.
func NewArray(log logger.Logger, store WordStore, reg *Registry, region RegionID, opts ...Option) *Array {
	reg.seal()
	o := newStoreOptions(opts...)
	return &Array{
		Store:  store,
		Reg:    reg,
		Region: region,
		stride: uint64(reg.MaxWords()),
		hash:   o.Hasher,
		log:    log,
	}
}

func (a *Array) lengthSlot() Addr {
	return a.hash(SlotDomainArrayLength, a.Region, nil)
}

// elementSlot computes the address of word `word` of element `index`, see
// ArrayElementSlot.
func (a *Array) elementSlot(index uint64, word uint64) Addr {
	return a.hash(SlotDomainArrayData, a.Region, nil).Add(index*a.stride + word)
}

// Len returns the element count.
func (a *Array) Len() uint64 {
	return wordUint64(a.Store.GetWord(a.lengthSlot()))
}

// Push appends rec and returns its index.
//
// The target slot is one past the last written element so its tag is empty
// by the stack discipline invariant, but the tag is still checked
// defensively, a corrupted or aliased store must not be silently extended
// over.
func (a *Array) Push(rec Record) (uint64, error) {
	desc := a.Reg.mustDescriptor(rec)

	n := a.Len()
	base := a.elementSlot(n, 0)

	headerWord := a.Store.GetWord(base)
	if stored := HeaderTag(headerWord[:]); stored != TagEmpty {
		return 0, fmt.Errorf(
			"%w: append slot %d unexpectedly holds tag %d",
			ErrSlotOccupied, n, stored)
	}

	// Validation and marshaling complete before the first write: a failure
	// from here on is impossible, so the call never leaves a partial
	// element or a length that disagrees with the data.
	words, err := marshalRecordWords(desc, rec)
	if err != nil {
		return 0, err
	}

	writeRecordWords(a.Store, base, words)
	a.Store.PutWord(a.lengthSlot(), wordPutUint64(n+1))

	a.log.Debugf("array.push: region=%x i=%d tag=%d", a.Region, n, desc.Tag)
	return n, nil
}

// Get reads element index into rec. Fails with ErrIndexOutOfRange for
// index >= Len, and with ErrTagMismatch when the occupant is not rec's
// variant.
func (a *Array) Get(index uint64, rec Record) error {
	desc := a.Reg.mustDescriptor(rec)

	n := a.Len()
	if index >= n {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, n)
	}

	base := a.elementSlot(index, 0)
	headerWord := a.Store.GetWord(base)
	stored := HeaderTag(headerWord[:])
	if stored != desc.Tag {
		return fmt.Errorf(
			"%w: element %d holds tag %d, requested %s (tag %d)",
			ErrTagMismatch, index, stored, desc.Name, desc.Tag)
	}

	words := make([]Word, desc.Words)
	for i := range words {
		words[i] = a.Store.GetWord(base.Add(uint64(i)))
	}
	return rec.UnmarshalBinary(recordBytes(words))
}

// GetBase returns the base shaped view of element index, valid for any
// occupant. This is the storage up-cast for arrays.
func (a *Array) GetBase(index uint64) (BaseHeader, error) {
	n := a.Len()
	if index >= n {
		return BaseHeader{}, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, n)
	}
	base := a.elementSlot(index, 0)
	headerWord := a.Store.GetWord(base)
	return BaseHeader{Tag: HeaderTag(headerWord[:])}, nil
}

// GetAny reads element index as whichever variant occupies it, constructed
// through the registered factory. The array is heterogeneous, this is how a
// caller walks it without knowing the shape sequence in advance.
func (a *Array) GetAny(index uint64) (Record, error) {
	n := a.Len()
	if index >= n {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, n)
	}

	base := a.elementSlot(index, 0)
	headerWord := a.Store.GetWord(base)
	stored := HeaderTag(headerWord[:])
	desc, ok := a.Reg.Descriptor(stored)
	if !ok {
		return nil, fmt.Errorf(
			"%w: element %d holds unregistered tag %d", ErrTagMismatch, index, stored)
	}

	rec := desc.New()
	words := make([]Word, desc.Words)
	for i := range words {
		words[i] = a.Store.GetWord(base.Add(uint64(i)))
	}
	if err := rec.UnmarshalBinary(recordBytes(words)); err != nil {
		return nil, err
	}
	return rec, nil
}

// Pop removes the last element and returns the tag of the variant that
// occupied it. The array is heterogeneous so the caller cannot know in
// advance which shape is being removed: the stored tag drives the dispatch
// to the departing variant's clear, which zeroes that shape's full
// footprint, tag word first.
func (a *Array) Pop() (Tag, error) {
	n := a.Len()
	if n == 0 {
		return TagEmpty, ErrEmptyArray
	}

	base := a.elementSlot(n-1, 0)
	headerWord := a.Store.GetWord(base)
	stored := HeaderTag(headerWord[:])
	desc, ok := a.Reg.Descriptor(stored)
	if !ok {
		// Only reachable through storage corruption, the slot was written by
		// a Push which validated the tag.
		return TagEmpty, fmt.Errorf(
			"%w: element %d holds unregistered tag %d", ErrTagMismatch, n-1, stored)
	}

	clearRecordWords(a.Store, base, desc.Words)
	a.Store.PutWord(a.lengthSlot(), wordPutUint64(n-1))

	a.log.Debugf("array.pop: region=%x i=%d tag=%d", a.Region, n-1, desc.Tag)
	return desc.Tag, nil
}
