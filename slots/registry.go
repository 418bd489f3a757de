package slots

import "fmt"

// VariantDescriptor is the static description of one derived shape.
type VariantDescriptor struct {
	// Tag is the discriminant stored in the header word of every record of
	// this shape. It must be unique within the registry and must not be
	// TagEmpty.
	Tag Tag

	// Name is used in diagnostics only.
	Name string

	// Words is the total record footprint, including the leading base header
	// word. Minimum is HeaderWords.
	Words int

	// BaseOffset is the byte offset of the embedded base record from the
	// start of the derived record. The in-memory cast arithmetic depends on
	// it. Shapes stored through Mapping or Array must use offset 0, the tag
	// has to land in the slot's first word. In-memory only shapes may embed
	// the base anywhere.
	BaseOffset int

	// New returns a zero value of the shape. The tag dispatched reads
	// (Mapping.GetAny, Array.GetAny) use it to decode whichever variant the
	// stored tag identifies.
	New func() Record
}

// Registry is the closed, static description of a record family: the base
// shape, the derived shapes and their discriminant tags. It is pure metadata
// populated at initialization time. An unknown tag encountered later is a
// programming error, not a runtime condition, so registration failures panic
// rather than surfacing an error kind.
//
// The registry is sealed by the first store constructed over it. Array
// element addresses are a function of the largest registered shape, so a
// later, larger registration would silently invalidate every address already
// computed. Sealing turns that mistake into an immediate panic. This is the
// stated design limitation of the max-stride scheme: the family is not
// extensible once a store is deployed over it.
type Registry struct {
	byTag    map[Tag]VariantDescriptor
	maxWords int
	sealed   bool
}

func NewRegistry() *Registry {
	return &Registry{byTag: map[Tag]VariantDescriptor{}}
}

// MustRegister adds a derived shape to the family. Duplicate tags, the
// reserved empty tag, undersized footprints and missing factories all panic:
// they are build time mistakes and must not survive to run time.
func (r *Registry) MustRegister(d VariantDescriptor) {
	if r.sealed {
		panic(fmt.Sprintf("slots: registry sealed, cannot register %q", d.Name))
	}
	if d.Tag == TagEmpty {
		panic(fmt.Sprintf("slots: %q registered with the reserved empty tag", d.Name))
	}
	if d.Words < HeaderWords {
		panic(fmt.Sprintf("slots: %q registered with %d words, minimum is %d", d.Name, d.Words, HeaderWords))
	}
	if d.BaseOffset < 0 || d.BaseOffset+ValueBytes > d.Words*ValueBytes {
		panic(fmt.Sprintf(
			"slots: %q registered with base offset %d outside its %d word footprint",
			d.Name, d.BaseOffset, d.Words))
	}
	if d.New == nil {
		panic(fmt.Sprintf("slots: %q registered without a factory", d.Name))
	}
	if prev, ok := r.byTag[d.Tag]; ok {
		panic(fmt.Sprintf("slots: tag %d already registered for %q", d.Tag, prev.Name))
	}
	r.byTag[d.Tag] = d
	if d.Words > r.maxWords {
		r.maxWords = d.Words
	}
}

// Descriptor returns the registered description for tag.
func (r *Registry) Descriptor(tag Tag) (VariantDescriptor, bool) {
	d, ok := r.byTag[tag]
	return d, ok
}

// MaxWords returns the footprint of the largest registered shape. This is
// the array stride.
func (r *Registry) MaxWords() int {
	return r.maxWords
}

// mustDescriptor resolves the descriptor for a record the caller supplied.
// The record type not being registered is a programming error.
func (r *Registry) mustDescriptor(rec Record) VariantDescriptor {
	d, ok := r.byTag[rec.VariantTag()]
	if !ok {
		panic(fmt.Sprintf("slots: record tag %d is not registered", rec.VariantTag()))
	}
	return d
}

// seal closes the family. Called by store constructors, see the type comment.
func (r *Registry) seal() {
	r.sealed = true
}
