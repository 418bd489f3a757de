package slots

import (
	"crypto/sha256"

	"github.com/google/uuid"
)

// SlotDomain separates the address spaces derived for the different slot
// kinds. Folding the domain and the region into the hash input ensures that
// separate mapping and array instances never alias each other's storage, even
// when built over the same underlying word store.
type SlotDomain uint8

const (
	SlotDomainMapping SlotDomain = iota + 1
	SlotDomainArrayLength
	SlotDomainArrayData
)

// RegionID identifies one logical mapping or array region within the slot
// space. Distinct regions are the unit of isolation: the same key in two
// regions resolves to unrelated addresses.
type RegionID []byte

// NewRegionID returns a fresh random region identity.
func NewRegionID() RegionID {
	u := uuid.New()
	return u[:]
}

// SlotAddr derives the address for a region scoped key.
//
//	addr = H( DOMAIN || REGION || KEY )
//
// H is SHA-256. Determinism is mandatory: the same domain, region and key
// always produce the same address for the lifetime of the storage. Distinct
// keys colliding within a region is assumed negligible, that is a property of
// the hash, not something engineered here.
func SlotAddr(domain SlotDomain, region RegionID, key []byte) Addr {
	h := sha256.New()

	h.Write([]byte{uint8(domain)})

	h.Write(region)

	h.Write(key)

	var addr Addr
	copy(addr[:], h.Sum(nil))
	return addr
}

// MappingSlot returns the base address of the record stored for key in the
// mapping region. The record's words occupy consecutive addresses from the
// base.
func MappingSlot(region RegionID, key []byte) Addr {
	return SlotAddr(SlotDomainMapping, region, key)
}

// ArrayLengthSlot returns the address of the array region's length counter.
// The counter lives in its own domain so it can never collide with element
// data.
func ArrayLengthSlot(region RegionID) Addr {
	return SlotAddr(SlotDomainArrayLength, region, nil)
}

// ArrayDataBase returns the address of element zero of the array region.
func ArrayDataBase(region RegionID) Addr {
	return SlotAddr(SlotDomainArrayData, region, nil)
}

// ArrayElementSlot computes the address of word `word` of element `index`.
//
//	addr = H( DOMAIN || REGION ) + index*stride + word
//
// The stride is fixed per array at the word count of the largest registered
// shape, so the address is computable from the index alone, before the tag
// read that reveals which variant occupies the element.
func ArrayElementSlot(region RegionID, index uint64, strideWords uint64, word uint64) Addr {
	return ArrayDataBase(region).Add(index*strideWords + word)
}
