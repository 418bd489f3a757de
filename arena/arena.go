package arena

import (
	"errors"
	"fmt"

	"github.com/forestrie/go-slotstore/slots"
)

var (
	ErrRefOutOfRange = errors.New("the reference is not within the arena")
)

// Ref is a base shaped reference: the byte offset of a record's embedded
// base header within the arena. This is the reference form records are
// passed around in, a holder can always read the tag through it and can
// narrow it to a derived view with DownCastRef.
type Ref uint64

// RecordRef is a derived shaped reference: the byte offset of a derived
// record's first byte. It is obtained from a Ref by a validated down-cast,
// or surrendered back to a Ref by UpCast.
type RecordRef uint64

// Arena is a linear scratch memory holding tagged records at fixed offsets.
//
// The cast arithmetic depends on the registered layout of each shape: the
// base record is embedded at a fixed offset within every derived record, and
// the registry's BaseOffset records that distance for each shape. The
// persistent stores additionally require the offset to be zero so the tag
// lands in the slot's first word, in-memory shapes are free to embed the base
// anywhere.
type Arena struct {
	reg *slots.Registry
	mem []byte
}

func New(reg *slots.Registry) *Arena {
	return &Arena{reg: reg}
}

// Alloc appends rec to the arena and returns the base shaped reference to
// it. The record is validated against its registered descriptor exactly as
// the persistent stores validate it.
func (a *Arena) Alloc(rec slots.Record) (Ref, error) {
	desc, ok := a.reg.Descriptor(rec.VariantTag())
	if !ok {
		return 0, fmt.Errorf("%w: record tag %d is not registered", slots.ErrInvalidCast, rec.VariantTag())
	}

	b, err := rec.MarshalBinary()
	if err != nil {
		return 0, err
	}
	if len(b) != desc.Words*slots.ValueBytes {
		return 0, fmt.Errorf(
			"%w: %s marshaled %d bytes, registered for %d words",
			slots.ErrRecordBadSize, desc.Name, len(b), desc.Words)
	}

	start := uint64(len(a.mem))
	a.mem = append(a.mem, b...)
	return Ref(start + uint64(desc.BaseOffset)), nil
}

// Base reads the base shaped view through ref. Valid for any occupant, this
// is the view a holder of a Ref always has without casting.
func (a *Arena) Base(ref Ref) (slots.BaseHeader, error) {
	// The subtracted form cannot wrap for any ref, unlike ref + ValueBytes.
	if uint64(ref) > uint64(len(a.mem)) || uint64(len(a.mem))-uint64(ref) < slots.ValueBytes {
		return slots.BaseHeader{}, fmt.Errorf("%w: ref %d, arena %d bytes", ErrRefOutOfRange, ref, len(a.mem))
	}
	return slots.BaseHeader{Tag: slots.HeaderTag(a.mem[ref:])}, nil
}

// DownCastRef narrows a base shaped reference to the derived reference for
// tag.
//
//	derived = base - BaseOffset(tag)
//
// The cast is legal if and only if the tag read through the base reference
// equals the requested tag, otherwise it fails with ErrInvalidCast and no
// derived reference exists.
func (a *Arena) DownCastRef(ref Ref, tag slots.Tag) (RecordRef, error) {
	desc, ok := a.reg.Descriptor(tag)
	if !ok {
		return 0, fmt.Errorf("%w: tag %d is not registered", slots.ErrInvalidCast, tag)
	}

	hdr, err := a.Base(ref)
	if err != nil {
		return 0, err
	}
	if hdr.Tag != desc.Tag {
		return 0, fmt.Errorf(
			"%w: base holds tag %d, requested %s (tag %d)",
			slots.ErrInvalidCast, hdr.Tag, desc.Name, desc.Tag)
	}

	// A stale or forged reference can carry a plausible tag by accident, the
	// arithmetic must not wrap on it. Base has established ref is within the
	// arena, so the remaining hazards are a ref above fewer bytes than the
	// shape's base offset and a footprint running past the end.
	if uint64(ref) < uint64(desc.BaseOffset) {
		return 0, fmt.Errorf("%w: ref %d, %s base offset %d", ErrRefOutOfRange, ref, desc.Name, desc.BaseOffset)
	}
	start := uint64(ref) - uint64(desc.BaseOffset)
	if uint64(desc.Words*slots.ValueBytes) > uint64(len(a.mem))-start {
		return 0, fmt.Errorf("%w: ref %d, arena %d bytes", ErrRefOutOfRange, ref, len(a.mem))
	}
	return RecordRef(start), nil
}

// DownCast narrows ref and decodes the derived record into rec, which
// selects the requested shape by its type.
func (a *Arena) DownCast(ref Ref, rec slots.Record) error {
	desc, ok := a.reg.Descriptor(rec.VariantTag())
	if !ok {
		return fmt.Errorf("%w: record tag %d is not registered", slots.ErrInvalidCast, rec.VariantTag())
	}
	rr, err := a.DownCastRef(ref, desc.Tag)
	if err != nil {
		return err
	}
	return rec.UnmarshalBinary(a.mem[rr : uint64(rr)+uint64(desc.Words*slots.ValueBytes)])
}

// UpCast widens a derived reference back to the base shaped reference. It is
// the address increasing inverse of DownCastRef and always succeeds: the base
// record is embedded within every derived record, so the target of the
// widened reference is valid by construction. An unregistered tag is a
// programming error here, not a runtime condition.
func (a *Arena) UpCast(rr RecordRef, tag slots.Tag) Ref {
	desc, ok := a.reg.Descriptor(tag)
	if !ok {
		panic(fmt.Sprintf("arena: up-cast with unregistered tag %d", tag))
	}
	return Ref(uint64(rr) + uint64(desc.BaseOffset))
}

// Store writes rec back through its derived reference, the write equivalent
// of DownCast's read. The occupant tag must already match rec, Store never
// changes which shape occupies a record.
func (a *Arena) Store(rr RecordRef, rec slots.Record) error {
	desc, ok := a.reg.Descriptor(rec.VariantTag())
	if !ok {
		return fmt.Errorf("%w: record tag %d is not registered", slots.ErrInvalidCast, rec.VariantTag())
	}
	need := uint64(desc.Words * slots.ValueBytes)
	if uint64(rr) > uint64(len(a.mem)) || need > uint64(len(a.mem))-uint64(rr) {
		return fmt.Errorf("%w: ref %d, arena %d bytes", ErrRefOutOfRange, rr, len(a.mem))
	}
	end := uint64(rr) + need
	if stored := slots.HeaderTag(a.mem[uint64(rr)+uint64(desc.BaseOffset):]); stored != desc.Tag {
		return fmt.Errorf(
			"%w: record holds tag %d, refusing to store %s (tag %d)",
			slots.ErrInvalidCast, stored, desc.Name, desc.Tag)
	}

	b, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	if len(b) != desc.Words*slots.ValueBytes {
		return fmt.Errorf(
			"%w: %s marshaled %d bytes, registered for %d words",
			slots.ErrRecordBadSize, desc.Name, len(b), desc.Words)
	}
	copy(a.mem[rr:end], b)
	return nil
}
