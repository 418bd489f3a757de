package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWithSlotHasher tests that a substituted hash primitive carries the
// whole store: records land at the substituted addresses and the default
// addresses stay unwritten.
func TestWithSlotHasher(t *testing.T) {
	salted := func(domain SlotDomain, region RegionID, key []byte) Addr {
		return SlotAddr(domain, region, append([]byte("salt/"), key...))
	}

	store := NewMemoryStore()
	region := NewRegionID()
	m := NewMapping(
		testLogger(t), store, newTestRegistry(), region, WithSlotHasher(salted))

	key := []byte("k")
	require.NoError(t, m.Set(key, &testCounter{Count: 5}))

	var c testCounter
	require.NoError(t, m.Get(key, &c))
	assert.Equal(t, testCounter{Count: 5}, c)

	assert.Equal(t, Word{}, store.GetWord(MappingSlot(region, key)))
	assert.NotEqual(t, Word{}, store.GetWord(salted(SlotDomainMapping, region, key)))
}
