package slots

const (

	// Every base shaped record begins with a single header word:
	//
	//	|-----|------------|
	//	| tag | <reserved> |
	//	|-----|------------|
	//	|  0  |  1 ..  31  |
	//
	// The tag is always at byte 0 of the record regardless of variant, so a
	// single word read at the record's address is sufficient both to test
	// occupancy and to identify the occupying shape.

	HeaderTagByte   = 0
	HeaderWords     = 1
	HeaderTagOffset = 0
)

// Tag is the discriminant identifying which derived shape occupies a base
// shaped slot. The zero value is reserved to mean the slot is unoccupied, it
// is never a legal variant tag. This matches the zero default read of the
// word store: a slot that was never written reads as empty with no separate
// existence flag.
type Tag uint8

// TagEmpty marks an unoccupied slot, purposefully defined as 0.
const TagEmpty Tag = 0

// BaseHeader is the base shaped view of any record. It is the widest view
// that is always valid for an occupied slot, obtaining it never requires a
// tag check because every derived record embeds the base.
type BaseHeader struct {
	Tag Tag
}

// PutBaseHeader writes the base header into the first word of a marshaled
// record. Record implementations call this from MarshalBinary so that word 0
// always carries their registered tag.
func PutBaseHeader(b []byte, tag Tag) {
	b[HeaderTagByte] = uint8(tag)
}

// HeaderTag reads the discriminant from the first word of a record or slot.
func HeaderTag(b []byte) Tag {
	return Tag(b[HeaderTagByte])
}

// headerWord builds the header word for tag.
func headerWord(tag Tag) Word {
	var w Word
	w[HeaderTagByte] = uint8(tag)
	return w
}
