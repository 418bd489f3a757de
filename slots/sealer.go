package slots

import (
	"crypto/ecdsa"
	"crypto/rand"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/veraison/go-cose"
)

// RegionSealer produces a signature over a region storage state. The
// signature commits to the exact store contents via the snapshot digest.
// Publish a seal only after confirming the state is the one you intend to
// commit to, a seal cannot be retracted.
type RegionSealer struct {
	issuer    string
	cborCodec dtcbor.CBORCodec
}

func NewRegionSealer(issuer string, cborCodec dtcbor.CBORCodec) RegionSealer {
	rs := RegionSealer{
		issuer:    issuer,
		cborCodec: cborCodec,
	}
	return rs
}

// Sign1 seals the provided region state.
//
// The digest is purposefully detached after signing so that verifiers are
// forced to recompute it from the storage they hold, a seal alone proves
// nothing about data the verifier has not read.
func (rs RegionSealer) Sign1(coseSigner cose.Signer, keyIdentifier string, publicKey *ecdsa.PublicKey, subject string, state RegionState, external []byte) ([]byte, error) {
	payload, err := rs.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}

	coseHeaders := cose.Headers{
		Protected: cose.ProtectedHeader{
			dtcose.HeaderLabelCWTClaims: dtcose.NewCNFClaim(
				rs.issuer, subject, keyIdentifier, coseSigner.Algorithm(), *publicKey),
		},
	}

	msg := cose.Sign1Message{
		Headers: coseHeaders,
		Payload: payload,
	}
	err = msg.Sign(rand.Reader, external, coseSigner)
	if err != nil {
		return nil, err
	}

	state.Digest = nil
	payload, err = rs.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}
	msg.Payload = payload

	return msg.MarshalCBOR()
}
