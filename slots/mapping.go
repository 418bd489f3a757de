package slots

import (
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
)

// Mapping is the key addressed store of tagged records. Each key owns at
// most one record, whose address is derived from the key and the mapping's
// region. The record's occupancy and shape are both read from the tag in its
// header word, there is no separate index of written keys.
type Mapping struct {
	Store  WordStore
	Reg    *Registry
	Region RegionID

	hash SlotHasher
	log  logger.Logger
}

// NewMapping constructs a key addressed store over the given word store and
// record family. Constructing any store over a registry seals it, see
// Registry.
func NewMapping(log logger.Logger, store WordStore, reg *Registry, region RegionID, opts ...Option) *Mapping {
	reg.seal()
	o := newStoreOptions(opts...)
	return &Mapping{
		Store:  store,
		Reg:    reg,
		Region: region,
		hash:   o.Hasher,
		log:    log,
	}
}

// slot returns the base address of the record for key.
func (m *Mapping) slot(key []byte) Addr {
	return m.hash(SlotDomainMapping, m.Region, key)
}

// Get reads the record stored for key into rec. The stored tag must equal
// rec's variant tag, a different occupant, or an empty slot, fails with
// ErrTagMismatch. rec is the requested derived view, the caller picks the
// variant by the type it passes.
func (m *Mapping) Get(key []byte, rec Record) error {
	desc := m.Reg.mustDescriptor(rec)
	base := m.slot(key)

	headerWord := m.Store.GetWord(base)
	stored := HeaderTag(headerWord[:])
	if stored != desc.Tag {
		return fmt.Errorf(
			"%w: key %x holds tag %d, requested %s (tag %d)",
			ErrTagMismatch, key, stored, desc.Name, desc.Tag)
	}

	return rec.UnmarshalBinary(recordBytes(m.readWords(base, desc.Words)))
}

// GetBase returns the base shaped view of whatever occupies the slot for
// key. This is the storage up-cast: it is valid for any occupant and
// requires no variant check, only occupancy. An empty slot fails with
// ErrTagMismatch.
func (m *Mapping) GetBase(key []byte) (BaseHeader, error) {
	base := m.slot(key)
	headerWord := m.Store.GetWord(base)
	stored := HeaderTag(headerWord[:])
	if stored == TagEmpty {
		return BaseHeader{}, fmt.Errorf("%w: key %x is empty", ErrTagMismatch, key)
	}
	return BaseHeader{Tag: stored}, nil
}

// GetAny reads the record stored for key as whichever variant occupies the
// slot, constructed through the registered factory. This is the tag
// dispatched read: the caller does not name the variant in advance and
// inspects the returned record's VariantTag to discover what it received. An
// empty slot fails with ErrTagMismatch.
func (m *Mapping) GetAny(key []byte) (Record, error) {
	base := m.slot(key)
	headerWord := m.Store.GetWord(base)
	stored := HeaderTag(headerWord[:])
	desc, ok := m.Reg.Descriptor(stored)
	if !ok {
		return nil, fmt.Errorf("%w: key %x holds tag %d", ErrTagMismatch, key, stored)
	}

	rec := desc.New()
	if err := rec.UnmarshalBinary(recordBytes(m.readWords(base, desc.Words))); err != nil {
		return nil, err
	}
	return rec, nil
}

// Set writes rec as the record for key. The slot must be empty or already
// hold the same variant, overwrite in place of the same variant is
// permitted. Overwriting a different occupied variant fails with
// ErrSlotOccupied: the old variant may own fields the new one does not
// overlap, and a silent overwrite would corrupt them.
func (m *Mapping) Set(key []byte, rec Record) error {
	desc := m.Reg.mustDescriptor(rec)
	base := m.slot(key)

	headerWord := m.Store.GetWord(base)
	stored := HeaderTag(headerWord[:])
	if stored != TagEmpty && stored != desc.Tag {
		return fmt.Errorf(
			"%w: key %x holds tag %d, refusing to write %s (tag %d)",
			ErrSlotOccupied, key, stored, desc.Name, desc.Tag)
	}

	// Validation and marshaling complete before the first write: a failure
	// from here on is impossible, so the call never leaves a partial record.
	words, err := marshalRecordWords(desc, rec)
	if err != nil {
		return err
	}

	writeRecordWords(m.Store, base, words)
	m.log.Debugf("mapping.set: region=%x key=%x tag=%d", m.Region, key, desc.Tag)
	return nil
}

// Clear removes the record for key. tag selects the variant clear routine,
// the occupant must match it. The tag word is reset first so the record is
// invisible as occupied the moment destruction begins, then the remaining
// fields are zeroed. Zeroing is not strictly required once the tag no longer
// claims the fields, but it removes any chance of stale fields being
// misread later.
func (m *Mapping) Clear(key []byte, tag Tag) error {
	desc, ok := m.Reg.Descriptor(tag)
	if !ok {
		return fmt.Errorf("%w: tag %d is not registered", ErrTagMismatch, tag)
	}
	base := m.slot(key)

	headerWord := m.Store.GetWord(base)
	stored := HeaderTag(headerWord[:])
	if stored != desc.Tag {
		return fmt.Errorf(
			"%w: key %x holds tag %d, requested clear of %s (tag %d)",
			ErrTagMismatch, key, stored, desc.Name, desc.Tag)
	}

	clearRecordWords(m.Store, base, desc.Words)
	m.log.Debugf("mapping.clear: region=%x key=%x tag=%d", m.Region, key, desc.Tag)
	return nil
}

// readWords collects the record's words from consecutive addresses.
func (m *Mapping) readWords(base Addr, n int) []Word {
	words := make([]Word, n)
	for i := range words {
		words[i] = m.Store.GetWord(base.Add(uint64(i)))
	}
	return words
}

// writeRecordWords writes a marshaled record at consecutive addresses from
// base. The field words are written before the header word: a record only
// becomes visible as occupied once it is fully populated, which keeps
// re-entrant reads from observing a tagged but half written record.
func writeRecordWords(store WordWriter, base Addr, words []Word) {
	for i := len(words) - 1; i >= 1; i-- {
		store.PutWord(base.Add(uint64(i)), words[i])
	}
	store.PutWord(base, words[0])
}

// clearRecordWords destroys a record at base. The header word is zeroed
// first, see Clear.
func clearRecordWords(store WordWriter, base Addr, n int) {
	store.PutWord(base, Word{})
	for i := 1; i < n; i++ {
		store.PutWord(base.Add(uint64(i)), Word{})
	}
}
