package slots

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
)

func testLogger(t *testing.T) logger.Logger {
	logger.New("NOOP")
	t.Cleanup(logger.OnExit)
	return logger.Sugar.WithServiceName("slotstest")
}

// Test record family. The base shape is the bare header, counter adds one
// field word, window adds two. Field words carry their value big endian in
// the trailing 8 bytes.
const (
	testTagCounter Tag = 1
	testTagWindow  Tag = 2

	testCounterWords = 2
	testWindowWords  = 3
)

type testCounter struct {
	Count uint64
}

func (c *testCounter) VariantTag() Tag { return testTagCounter }

func (c *testCounter) MarshalBinary() ([]byte, error) {
	b := make([]byte, testCounterWords*ValueBytes)
	PutBaseHeader(b, testTagCounter)
	binary.BigEndian.PutUint64(b[2*ValueBytes-8:], c.Count)
	return b, nil
}

func (c *testCounter) UnmarshalBinary(b []byte) error {
	if len(b) != testCounterWords*ValueBytes {
		return fmt.Errorf("%w: counter got %d bytes", ErrRecordBadSize, len(b))
	}
	c.Count = binary.BigEndian.Uint64(b[2*ValueBytes-8:])
	return nil
}

type testWindow struct {
	Low  uint64
	High uint64
}

func (w *testWindow) VariantTag() Tag { return testTagWindow }

func (w *testWindow) MarshalBinary() ([]byte, error) {
	b := make([]byte, testWindowWords*ValueBytes)
	PutBaseHeader(b, testTagWindow)
	binary.BigEndian.PutUint64(b[2*ValueBytes-8:], w.Low)
	binary.BigEndian.PutUint64(b[3*ValueBytes-8:], w.High)
	return b, nil
}

func (w *testWindow) UnmarshalBinary(b []byte) error {
	if len(b) != testWindowWords*ValueBytes {
		return fmt.Errorf("%w: window got %d bytes", ErrRecordBadSize, len(b))
	}
	w.Low = binary.BigEndian.Uint64(b[2*ValueBytes-8:])
	w.High = binary.BigEndian.Uint64(b[3*ValueBytes-8:])
	return nil
}

func newTestRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(VariantDescriptor{
		Tag:   testTagCounter,
		Name:  "counter",
		Words: testCounterWords,
		New:   func() Record { return &testCounter{} },
	})
	reg.MustRegister(VariantDescriptor{
		Tag:   testTagWindow,
		Name:  "window",
		Words: testWindowWords,
		New:   func() Record { return &testWindow{} },
	})
	return reg
}

// badSizeRecord deliberately marshals more bytes than its registered word
// count to exercise the in flight validation paths.
type badSizeRecord struct{}

func (r *badSizeRecord) VariantTag() Tag { return testTagCounter }

func (r *badSizeRecord) MarshalBinary() ([]byte, error) {
	b := make([]byte, (testCounterWords+1)*ValueBytes)
	PutBaseHeader(b, testTagCounter)
	return b, nil
}

func (r *badSizeRecord) UnmarshalBinary(b []byte) error { return nil }
