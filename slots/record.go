package slots

import (
	"encoding"
	"fmt"
)

// Record is implemented by every derived shape in a registered family.
//
// MarshalBinary must produce exactly the registered word multiple for the
// shape, with the base header as the leading word carrying the shape's tag
// (use PutBaseHeader). UnmarshalBinary is given the same number of bytes
// back. The embedded base record being the physical prefix is the invariant
// that makes up-casting a pure reinterpretation and down-casting a single tag
// read.
type Record interface {
	VariantTag() Tag
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// marshalRecordWords marshals rec and checks the result against its
// registered descriptor: the size must be the registered word multiple and
// word 0 must carry the registered tag. Violations are programming errors in
// the record implementation, but they are surfaced as errors here because
// they are detected while a store operation is in flight and the operation
// must abort cleanly.
func marshalRecordWords(desc VariantDescriptor, rec Record) ([]Word, error) {
	b, err := rec.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if len(b) != desc.Words*ValueBytes {
		return nil, fmt.Errorf(
			"%w: %s marshaled %d bytes, registered for %d words",
			ErrRecordBadSize, desc.Name, len(b), desc.Words)
	}
	if HeaderTag(b) != desc.Tag {
		return nil, fmt.Errorf(
			"%w: %s marshaled tag %d, registered tag %d",
			ErrRecordBadHeader, desc.Name, HeaderTag(b), desc.Tag)
	}

	words := make([]Word, desc.Words)
	for i := range words {
		copy(words[i][:], b[i*ValueBytes:(i+1)*ValueBytes])
	}
	return words, nil
}

// recordBytes reassembles the contiguous byte image of a record from its
// words, ready for UnmarshalBinary.
func recordBytes(words []Word) []byte {
	b := make([]byte, len(words)*ValueBytes)
	for i := range words {
		copy(b[i*ValueBytes:], words[i][:])
	}
	return b
}
