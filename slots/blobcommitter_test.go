package slots

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegionBlobStore is an in-memory stand in for the azblob store. It
// serves reads from a map and records every put. Etag option semantics are
// not emulated, the tests cover the committer's decisions, not the store's.
type fakeRegionBlobStore struct {
	blobs map[string][]byte
	etags map[string]string
	puts  []string
}

func newFakeRegionBlobStore() *fakeRegionBlobStore {
	return &fakeRegionBlobStore{
		blobs: map[string][]byte{},
		etags: map[string]string{},
	}
}

func (f *fakeRegionBlobStore) Reader(
	ctx context.Context, identity string, opts ...azblob.Option,
) (*azblob.ReaderResponse, error) {
	data, ok := f.blobs[identity]
	if !ok {
		return nil, fmt.Errorf("blob not found: %s", identity)
	}
	etag := f.etags[identity]
	lastModified := time.Now()
	return &azblob.ReaderResponse{
		ETag:          &etag,
		LastModified:  &lastModified,
		ContentLength: int64(len(data)),
		Reader:        io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (f *fakeRegionBlobStore) Put(
	ctx context.Context, identity string, source io.ReadSeekCloser, opts ...azblob.Option,
) (*azblob.WriteResponse, error) {
	data, err := io.ReadAll(source)
	if err != nil {
		return nil, err
	}
	f.blobs[identity] = data
	f.etags[identity] = fmt.Sprintf("etag-%d", len(f.puts))
	f.puts = append(f.puts, identity)
	return &azblob.WriteResponse{}, nil
}

// TestRegionCommitterSnapshotRoundTrip tests that a committed snapshot
// lands at the generation path for the region and reads back into an
// equivalent store.
func TestRegionCommitterSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobStore := newFakeRegionBlobStore()
	c := NewRegionCommitter(testLogger(t), blobStore)

	store := NewMemoryStore()
	reg := newTestRegistry()
	region := NewRegionID()
	m := NewMapping(testLogger(t), store, reg, region)
	require.NoError(t, m.Set([]byte("k"), &testWindow{Low: 1, High: 2}))

	_, err := c.CommitSnapshot(ctx, region, 0, store)
	require.NoError(t, err)
	require.Equal(t, []string{RegionSnapshotPath(region, 0)}, blobStore.puts)

	rc, err := c.GetSnapshot(ctx, region, 0)
	require.NoError(t, err)
	assert.NotEqual(t, "", rc.ETag)
	assert.Equal(t, int64(len(rc.Data)), rc.ContentLength)

	restored := NewMemoryStore()
	require.NoError(t, restored.UnmarshalBinary(rc.Data))
	assert.Equal(t, store.Digest(), restored.Digest())
}

// TestRegionCommitterEtagRequired tests that an update commit without the
// etag from a prior read is refused before any write reaches the store.
func TestRegionCommitterEtagRequired(t *testing.T) {
	ctx := context.Background()
	blobStore := newFakeRegionBlobStore()
	c := NewRegionCommitter(testLogger(t), blobStore)

	rc := RegionBlobContext{
		BlobPath: RegionSnapshotPath(NewRegionID(), 1),
		Data:     []byte("snapshot"),
		Creating: false,
	}
	_, err := c.CommitContext(ctx, rc)
	require.ErrorIs(t, err, ErrEtagRequired)
	assert.Empty(t, blobStore.puts)
}

// TestRegionCommitterUpdateAfterRead tests the read-modify-write cycle: the
// etag captured by ReadData permits the subsequent update commit.
func TestRegionCommitterUpdateAfterRead(t *testing.T) {
	ctx := context.Background()
	blobStore := newFakeRegionBlobStore()
	c := NewRegionCommitter(testLogger(t), blobStore)
	region := NewRegionID()

	store := NewMemoryStore()
	store.PutWord(Addr{31: 0x01}, Word{0: 0xaa})
	_, err := c.CommitSnapshot(ctx, region, 0, store)
	require.NoError(t, err)

	rc, err := c.GetSnapshot(ctx, region, 0)
	require.NoError(t, err)
	require.False(t, rc.Creating)

	rc.Data = append(rc.Data, make([]byte, snapshotPairBytes)...)
	_, err = c.CommitContext(ctx, rc)
	require.NoError(t, err)
	assert.Equal(t, rc.Data, blobStore.blobs[rc.BlobPath])
}

// TestRegionPaths pins the blob layout, seals and snapshots for one region
// share a hex region prefix and sort by zero padded generation.
func TestRegionPaths(t *testing.T) {
	region := RegionID{0xde, 0xad}
	assert.Equal(t, "v1/regions/dead/snapshots/0000000000000007.snap", RegionSnapshotPath(region, 7))
	assert.Equal(t, "v1/regions/dead/seals/0000000000000007.seal", RegionSealPath(region, 7))
}
