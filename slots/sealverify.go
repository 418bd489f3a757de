package slots

import (
	"crypto"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/veraison/go-cose"
)

type publicKeyProvider interface {
	PublicKey() (crypto.PublicKey, cose.Algorithm, error)
}

// DecodeSealedRegion decodes the RegionState values from the sealed message.
// See VerifySealedRegion for how to complete verification.
func DecodeSealedRegion(
	codec dtcbor.CBORCodec, msg []byte,
) (*dtcose.CoseSign1Message, RegionState, error) {
	signed, err := dtcose.NewCoseSign1MessageFromCBOR(msg, newSealDecOptions()...)
	if err != nil {
		return nil, RegionState{}, err
	}

	var unverifiedState RegionState
	err = codec.UnmarshalInto(signed.Payload, &unverifiedState)
	if err != nil {
		return nil, RegionState{}, err
	}
	return signed, unverifiedState, nil
}

// VerifySealedRegion applies the provided state to the sealed message and
// verifies the result.
//
// The digest is removed from the payload before a seal is published, so the
// decoded state will not verify as-is. Verification is a 3 step process:
//  1. Use DecodeSealedRegion to obtain the RegionState from the sealed
//     message.
//  2. Recompute the digest from the word store snapshot you hold.
//  3. Update the RegionState with the recomputed digest and call this
//     function to complete the verification.
func VerifySealedRegion(
	codec dtcbor.CBORCodec, keyProvider publicKeyProvider, signed *dtcose.CoseSign1Message, unverifiedState RegionState, external []byte) error {

	var err error
	signed.Payload, err = codec.MarshalCBOR(unverifiedState)
	if err != nil {
		return err
	}
	return signed.VerifyWithProvider(keyProvider, external)
}

func newSealDecOptions() []dtcose.SignOption {
	return []dtcose.SignOption{dtcose.WithDecOptions(dtcbor.NewDeterministicDecOpts())}
}
