package slots

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateECKey(t *testing.T, curve elliptic.Curve) ecdsa.PrivateKey {
	privateKey, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	return *privateKey
}

func TestNewRegionSealer(t *testing.T, issuer string) RegionSealer {
	cborCodec, err := NewRegionStateCodec()
	require.NoError(t, err)
	rs := NewRegionSealer(issuer, cborCodec)
	return rs
}
