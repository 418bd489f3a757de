package slots

import (
	"time"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
)

// RegionState defines the details included in a signed commitment to the
// state of one region's storage.
type RegionState struct {
	// Region identifies which mapping or array region the commitment covers.
	Region []byte `cbor:"1,keyasint"`

	// WordCount is the number of occupied words at the time the state was
	// taken. With Digest it pins the exact store contents.
	WordCount uint64 `cbor:"2,keyasint"`

	// Digest commits to the canonical snapshot of the word store. It is
	// detached before a sealed state is published, verifiers must recompute
	// it from the storage they hold.
	Digest []byte `cbor:"3,keyasint"`

	// ArrayLen is the region's element count, zero for mapping regions. It
	// is recorded separately from the digest so that consumers can follow
	// append progress without replaying snapshots.
	ArrayLen uint64 `cbor:"4,keyasint"`

	// Timestamp is the unix time (milliseconds) read when the state was
	// taken. Including it allows the same state to be re-sealed.
	Timestamp int64 `cbor:"5,keyasint"`
}

// NewRegionState captures the current state of a region held in store.
func NewRegionState(store *MemoryStore, region RegionID, arrayLen uint64) RegionState {
	return RegionState{
		Region:    region,
		WordCount: store.WordCount(),
		Digest:    store.Digest(),
		ArrayLen:  arrayLen,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewRegionStateCodec returns the deterministic CBOR codec used for sealed
// region states.
func NewRegionStateCodec() (dtcbor.CBORCodec, error) {
	codec, err := dtcbor.NewCBORCodec(
		dtcbor.NewDeterministicEncOpts(),
		dtcbor.NewDeterministicDecOpts(), // unsigned int decodes to uint64
	)
	if err != nil {
		return dtcbor.CBORCodec{}, err
	}
	return codec, nil
}
