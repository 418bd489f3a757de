package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSlotAddrDeterminism tests:
//
// 1. identical domain, region and key inputs always produce identical
// addresses
// 2. changing any one of the inputs produces a different address.
func TestSlotAddrDeterminism(t *testing.T) {
	regionA := RegionID{0x01, 0x02}
	regionB := RegionID{0x0a, 0x0b}
	key := []byte("widget-7")

	a1 := SlotAddr(SlotDomainMapping, regionA, key)
	a2 := SlotAddr(SlotDomainMapping, regionA, key)
	assert.Equal(t, a1, a2)

	assert.NotEqual(t, a1, SlotAddr(SlotDomainMapping, regionB, key))
	assert.NotEqual(t, a1, SlotAddr(SlotDomainArrayData, regionA, key))
	assert.NotEqual(t, a1, SlotAddr(SlotDomainMapping, regionA, []byte("widget-8")))
}

// TestRegionSlotIsolation tests:
//
// 1. the length counter, the data base and any mapping slot of one region
// never coincide
// 2. two regions never share an element base.
func TestRegionSlotIsolation(t *testing.T) {
	region := NewRegionID()
	other := NewRegionID()

	assert.NotEqual(t, ArrayLengthSlot(region), ArrayDataBase(region))
	assert.NotEqual(t, ArrayDataBase(region), MappingSlot(region, nil))
	assert.NotEqual(t, ArrayDataBase(region), ArrayDataBase(other))
}

// TestAddrAdd tests:
//
// 1. the identity add
// 2. single byte addition
// 3. carry propagation across byte boundaries
// 4. the array element formula places consecutive elements a stride apart.
func TestAddrAdd(t *testing.T) {
	tests := []struct {
		name     string
		addr     Addr
		delta    uint64
		expected Addr
	}{
		{
			name:     "zero delta",
			addr:     Addr{31: 0x01},
			delta:    0,
			expected: Addr{31: 0x01},
		},
		{
			name:     "single byte",
			addr:     Addr{31: 0x01},
			delta:    5,
			expected: Addr{31: 0x06},
		},
		{
			name:     "carry one byte",
			addr:     Addr{31: 0xff},
			delta:    1,
			expected: Addr{30: 0x01, 31: 0x00},
		},
		{
			name:     "carry ripples",
			addr:     Addr{29: 0x00, 30: 0xff, 31: 0xff},
			delta:    1,
			expected: Addr{29: 0x01, 30: 0x00, 31: 0x00},
		},
		{
			name:     "large delta",
			addr:     Addr{},
			delta:    0x0102030405060708,
			expected: Addr{24: 0x01, 25: 0x02, 26: 0x03, 27: 0x04, 28: 0x05, 29: 0x06, 30: 0x07, 31: 0x08},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.Add(tt.delta))
		})
	}
}

// TestArrayElementSlotStride tests that elements are laid out a stride
// apart, words consecutively within an element.
func TestArrayElementSlotStride(t *testing.T) {
	region := NewRegionID()
	base := ArrayDataBase(region)
	stride := uint64(3)

	require.Equal(t, base, ArrayElementSlot(region, 0, stride, 0))
	assert.Equal(t, base.Add(1), ArrayElementSlot(region, 0, stride, 1))
	assert.Equal(t, base.Add(3), ArrayElementSlot(region, 1, stride, 0))
	assert.Equal(t, base.Add(7), ArrayElementSlot(region, 2, stride, 1))
}
